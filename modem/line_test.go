package modem_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"digitalpetro.in/bpcl/fwdl/modem"
)

// waitUntil polls cond until it holds or the test deadline passes.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestLineBuffersInboundBytes(t *testing.T) {
	tt := modem.NewTestTransport()
	defer tt.Close()
	line := modem.NewLine(tt, 64)

	tt.SendData("OK\r\n")
	waitUntil(t, func() bool { return line.Available() == 4 })

	buf := make([]byte, 16)
	n, err := line.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf[:n]) != "OK\r\n" {
		t.Errorf("got %q, want %q", buf[:n], "OK\r\n")
	}
	if line.Available() != 0 {
		t.Errorf("got %d available after drain, want 0", line.Available())
	}
}

func TestLineReadIsNonBlocking(t *testing.T) {
	tt := modem.NewTestTransport()
	defer tt.Close()
	line := modem.NewLine(tt, 64)

	buf := make([]byte, 8)
	n, err := line.Read(buf)
	if n != 0 || err != nil {
		t.Errorf("got n=%d err=%v on empty line, want 0, nil", n, err)
	}
}

func TestLinePartialRead(t *testing.T) {
	tt := modem.NewTestTransport()
	defer tt.Close()
	line := modem.NewLine(tt, 64)

	tt.SendData("CONNECT\r\n")
	waitUntil(t, func() bool { return line.Available() == 9 })

	buf := make([]byte, 4)
	n, _ := line.Read(buf)
	if string(buf[:n]) != "CONN" {
		t.Errorf("got %q, want %q", buf[:n], "CONN")
	}
	n, _ = line.Read(buf)
	if string(buf[:n]) != "ECT\r" {
		t.Errorf("got %q, want %q", buf[:n], "ECT\r")
	}
}

func TestLineOverrunDropsAndCounts(t *testing.T) {
	tt := modem.NewTestTransport()
	defer tt.Close()
	line := modem.NewLine(tt, 8)

	tt.SendData("01234567ABCDEFGHIJKL") // 20 bytes into an 8-byte buffer
	waitUntil(t, func() bool { return line.Overruns() == 12 })

	if line.Available() != 8 {
		t.Errorf("got %d available, want 8", line.Available())
	}
	buf := make([]byte, 16)
	n, _ := line.Read(buf)
	if string(buf[:n]) != "01234567" {
		t.Errorf("got %q, want the first 8 bytes retained", buf[:n])
	}
}

func TestLineReportsEOFAfterDrain(t *testing.T) {
	tt := modem.NewTestTransport()
	line := modem.NewLine(tt, 64)

	tt.SendData("OK")
	tt.Close()

	buf := make([]byte, 8)
	waitUntil(t, func() bool {
		n, err := line.Read(buf)
		_ = n
		return errors.Is(err, io.EOF)
	})
}
