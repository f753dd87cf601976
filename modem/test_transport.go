package modem

import (
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking transport
// using channels. The Line's pump goroutine continuously reads from
// the transport, so reads must block until data is available, like a
// real serial port would.
//
// A responder can be installed with OnWrite to script the modem side
// of an exchange: it is invoked with every chunk written by the code
// under test and typically answers with SendData.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	pending  []byte
	closed   bool
	onWrite  func(p []byte)
}

// NewTestTransport creates a new test transport. Exported for use in
// tests of dependent packages.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 64),
	}
}

// OnWrite installs the scripted modem: f runs synchronously on every
// Write with a copy of the written bytes.
func (t *TestTransport) OnWrite(f func(p []byte)) {
	t.mu.Lock()
	t.onWrite = f
	t.mu.Unlock()
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	f := t.onWrite
	t.mu.Unlock()
	if f != nil {
		buf := make([]byte, len(p))
		copy(buf, p)
		f(buf)
	}
	return len(p), nil
}

// Read hands out queued data, carrying any remainder over to the next
// call so large bursts survive small destination buffers. Only the
// Line's pump goroutine calls Read, so pending needs no lock.
func (t *TestTransport) Read(p []byte) (n int, err error) {
	if len(t.pending) == 0 {
		data, ok := <-t.readChan
		if !ok {
			return 0, io.EOF
		}
		t.pending = data
	}
	n = copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport. This simulates
// receiving data from the modem.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}
