package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order
	// to establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNoControlLines is returned when a Modem is constructed with a
	// transport that does not expose the reset and power-key lines and
	// no ControlLines override was configured. Without them the
	// power-cycle sequence cannot run.
	ErrNoControlLines = errors.New("no control lines available")

	// ErrTimeout is returned when an expected token or line was not
	// observed on the transport before the deadline.
	ErrTimeout = errors.New("response timeout")

	// ErrCommandFailed is returned when the modem answers a command
	// with ERROR or +CME ERROR instead of the expected token.
	ErrCommandFailed = errors.New("command rejected by modem")

	// ErrAttachFailed is returned by BringOnline after the attach retry
	// budget has been exhausted.
	ErrAttachFailed = errors.New("network attach failed")

	// ErrAlreadyClosed is returned when Close is called on a Modem that
	// has already been closed.
	ErrAlreadyClosed = errors.New("modem already closed")
)
