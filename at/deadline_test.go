package at_test

import (
	"testing"
	"time"

	"digitalpetro.in/bpcl/fwdl/at"
)

func TestDeadline(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := at.DeadlineAfter(base, 5*time.Second)

	t.Run("not expired before the deadline", func(t *testing.T) {
		if d.Expired(base) {
			t.Error("deadline expired at construction instant")
		}
		if d.Expired(base.Add(4999 * time.Millisecond)) {
			t.Error("deadline expired before elapse")
		}
	})

	t.Run("expired at and after the deadline", func(t *testing.T) {
		if !d.Expired(base.Add(5 * time.Second)) {
			t.Error("deadline not expired at elapse")
		}
		if !d.Expired(base.Add(time.Minute)) {
			t.Error("deadline not expired after elapse")
		}
	})

	t.Run("remaining", func(t *testing.T) {
		if got := d.Remaining(base); got != 5*time.Second {
			t.Errorf("got %v, want 5s", got)
		}
		if got := d.Remaining(base.Add(3 * time.Second)); got != 2*time.Second {
			t.Errorf("got %v, want 2s", got)
		}
		if got := d.Remaining(base.Add(10 * time.Second)); got != 0 {
			t.Errorf("got %v after expiry, want 0", got)
		}
	})
}
