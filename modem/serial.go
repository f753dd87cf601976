package modem

import (
	"context"
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// SerialDialer opens a cellular modem over a serial port using
// go.bug.st/serial. The returned Transport also implements
// ControlLines: the modem's reset line is expected on the adapter's
// RTS output and the power key on DTR.
type SerialDialer struct {
	// PortName is the device path of the serial port (e.g. "/dev/ttyUSB0").
	PortName string
	// Mode configures baud rate, parity, data and stop bits. When nil,
	// 115200 8N1 is used.
	Mode *serial.Mode
}

// Dial opens the configured serial port.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("modem: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("modem: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: 115200,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", d.PortName, err)
	}
	return &serialTransport{port: port}, nil
}

// serialTransport adapts a serial.Port to Transport and exposes the
// modem control outputs as ControlLines.
type serialTransport struct {
	port serial.Port
}

func (t *serialTransport) Read(p []byte) (int, error)  { return t.port.Read(p) }
func (t *serialTransport) Write(p []byte) (int, error) { return t.port.Write(p) }
func (t *serialTransport) Close() error                { return t.port.Close() }

func (t *serialTransport) SetReset(high bool) error    { return t.port.SetRTS(high) }
func (t *serialTransport) SetPowerKey(high bool) error { return t.port.SetDTR(high) }

var (
	_ Transport    = (*serialTransport)(nil)
	_ ControlLines = (*serialTransport)(nil)
)
