package fota

import (
	"context"
	"time"
)

// Session is the slice of the modem the downloader needs: the AT
// transaction primitives for the protocol steps and the buffered
// stream reads for the payload. *modem.Modem satisfies it.
type Session interface {
	// Exec sends one AT command and waits for the expected token
	// within the timeout. An empty command only waits.
	Exec(ctx context.Context, cmd, want string, timeout time.Duration) (string, error)
	// CollectFor drains the line for a fixed window.
	CollectFor(ctx context.Context, window time.Duration) string
	// ReadLine returns the next CRLF-terminated line within the timeout.
	ReadLine(ctx context.Context, timeout time.Duration) (string, error)
	// WriteRaw sends bytes without a terminator.
	WriteRaw(p []byte) error
	// Available reports buffered inbound bytes.
	Available() int
	// Read copies buffered inbound bytes without blocking.
	Read(p []byte) (int, error)
	// Overruns reports how many inbound bytes the session has dropped
	// because its buffer was full. A transfer during which the count
	// moved has holes and must not be trusted.
	Overruns() int
}
