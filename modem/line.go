package modem

import (
	"io"
	"sync"
)

// Line owns the raw byte channel to the modem. It is the only
// component that touches the Transport directly: a pump goroutine
// drains inbound bytes into a bounded buffer so the modem can burst
// ahead of the consumer for short stretches, the way a UART RX buffer
// absorbs bytes while the CPU is busy writing to flash.
//
// The buffer must be sized for at least one full streaming chunk plus
// margin. When it fills, further inbound bytes are dropped and counted,
// matching hardware RX overrun semantics; a transfer that overruns is
// corrupt and the count makes that observable.
type Line struct {
	t Transport

	mu       sync.Mutex
	buf      []byte
	overruns int
	readErr  error
}

// NewLine wraps the transport and starts draining its inbound side
// into a buffer of the given capacity.
func NewLine(t Transport, capacity int) *Line {
	l := &Line{
		t:   t,
		buf: make([]byte, 0, capacity),
	}
	go l.pump(capacity)
	return l
}

// pump moves bytes from the transport into the bounded buffer until
// the transport reports an error or EOF.
func (l *Line) pump(capacity int) {
	scratch := make([]byte, 512)
	for {
		n, err := l.t.Read(scratch)
		l.mu.Lock()
		if n > 0 {
			room := capacity - len(l.buf)
			if n <= room {
				l.buf = append(l.buf, scratch[:n]...)
			} else {
				l.buf = append(l.buf, scratch[:room]...)
				l.overruns += n - room
			}
		}
		if err != nil {
			l.readErr = err
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()
	}
}

// Write sends bytes to the modem.
func (l *Line) Write(p []byte) (int, error) {
	return l.t.Write(p)
}

// Available reports the number of inbound bytes currently buffered.
func (l *Line) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf)
}

// Read copies up to len(p) buffered bytes into p without blocking.
// It returns 0, nil when no bytes are buffered, and the pump's error
// (io.EOF included) only once the buffer has been fully drained.
func (l *Line) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buf) == 0 {
		if l.readErr != nil {
			return 0, l.readErr
		}
		return 0, nil
	}
	n := copy(p, l.buf)
	rest := copy(l.buf, l.buf[n:])
	l.buf = l.buf[:rest]
	return n, nil
}

// Overruns reports how many inbound bytes were dropped because the
// buffer was full.
func (l *Line) Overruns() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overruns
}

var _ io.ReadWriter = (*Line)(nil)
