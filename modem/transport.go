package modem

import (
	"context"
	"io"
)

//go:generate go tool mockgen -source=transport.go -destination=mocks.go -package=modem

// Transport represents an established, bidirectional byte stream to a
// cellular modem.
//
// A Transport is assumed to be already connected and ready for use. It
// provides the low-level I/O primitives required to send AT commands
// and receive responses. Typical implementations include serial ports,
// TCP connections to emulators, or in-memory fakes used for testing.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport to a cellular modem.
//
// Dialer abstracts how the modem connection is created (for example,
// via a serial port, TCP-based emulator, or test double) and is
// intended to be used during modem construction only. Once a Transport
// is obtained, the Dialer is no longer needed.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport.
	// It may perform blocking operations and should respect cancellation and
	// deadlines provided by the context. Dial returns an error if the
	// transport cannot be established.
	Dial(ctx context.Context) (Transport, error)
}

// ControlLines drives the two hardware lines that sequence the modem's
// power state: the reset line and the power key. On real hardware
// these are wired to the serial adapter's modem-control outputs; in
// tests they are recorded by fakes.
type ControlLines interface {
	// SetReset drives the modem reset line high (true) or low (false).
	SetReset(high bool) error
	// SetPowerKey drives the modem power key line high (true) or low (false).
	SetPowerKey(high bool) error
}
