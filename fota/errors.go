package fota

import "errors"

var (
	// ErrNoURLWindow is returned when the modem never signals readiness
	// to receive the URL body.
	ErrNoURLWindow = errors.New("modem did not open URL input window")

	// ErrNoConnect is returned when the modem never signals the start
	// of the data stream after the read command.
	ErrNoConnect = errors.New("modem did not start data stream")

	// ErrStalled is returned when no payload bytes arrive for longer
	// than the inactivity window during streaming.
	ErrStalled = errors.New("data stream stalled")

	// ErrIncomplete is returned when streaming ends with fewer bytes
	// than the declared size. The partial artifact is deleted before
	// this error is returned.
	ErrIncomplete = errors.New("transfer incomplete")

	// ErrOverrun is returned when the session dropped inbound bytes
	// while the payload was streaming. The byte count may still match
	// the declared size, so the artifact is deleted regardless.
	ErrOverrun = errors.New("inbound bytes dropped during transfer")
)
