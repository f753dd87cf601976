package modem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"digitalpetro.in/bpcl/fwdl/at"
)

// Per-step attach timeouts, expressed as multiples of the base AT
// timeout. With the 1s default this yields the windows the modem
// family needs: SIM queries settle within 2s, context deactivation
// within 5s, and radio attach, the slowest step, within 10s.
const (
	simTimeoutFactor      = 2
	deactTimeoutFactor    = 5
	apnTimeoutFactor      = 2
	activateTimeoutFactor = 10
)

// ATTimeout is the base window for short configuration commands.
const ATTimeout = time.Second

// Power-cycle hold times. These are protocol-mandated minimums for the
// modem family: a short reset pulse followed by a markedly longer low
// hold, then a one-second power-key press and a long release while the
// modem boots. Do not shorten them.
const (
	resetPulseHigh = 200 * time.Millisecond
	resetHoldLow   = 3 * time.Second
	powerKeyHigh   = time.Second
	powerKeyLow    = 5 * time.Second
)

// Modem drives a cellular modem over an AT command channel. It owns
// the transport Line; callers interact with the wire only through the
// command primitives (Exec, CollectFor, ReadLine, WriteRaw) and the
// streaming reads (Available, Read).
type Modem struct {
	line   *Line
	lines  ControlLines
	config Config
	logger *slog.Logger
	closed bool
}

// New dials the transport, resolves the hardware control lines and
// wraps the connection in a buffered Line. It does not touch the modem
// itself; callers power it up with BringOnline.
func New(ctx context.Context, config Config, logger *slog.Logger) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}

	lines := config.Lines
	if lines == nil {
		cl, ok := transport.(ControlLines)
		if !ok {
			transport.Close()
			return nil, ErrNoControlLines
		}
		lines = cl
	}

	return &Modem{
		line:   NewLine(transport, config.InboundBuffer),
		lines:  lines,
		config: config,
		logger: logger,
	}, nil
}

// Close shuts the transport down. After Close the modem cannot be
// reused.
func (m *Modem) Close() error {
	if m.closed {
		return ErrAlreadyClosed
	}
	m.closed = true
	return m.line.t.Close()
}

// Exec sends one AT command and polls the line until the expected
// token appears in the accumulated response or the timeout elapses.
// An ERROR or +CME ERROR answer fails immediately instead of waiting
// out the window. An empty command skips the write and only waits,
// for responses that trail a previous exchange. There is no retry
// here; callers own that policy.
func (m *Modem) Exec(ctx context.Context, cmd, want string, timeout time.Duration) (string, error) {
	if cmd != "" {
		if _, err := m.line.Write([]byte(cmd + at.CRLF)); err != nil {
			return "", fmt.Errorf("write command %q: %w", cmd, err)
		}
	}

	deadline := at.DeadlineAfter(time.Now(), timeout)
	var resp strings.Builder
	scratch := make([]byte, 256)

	for {
		if err := ctx.Err(); err != nil {
			return resp.String(), err
		}
		n, _ := m.line.Read(scratch)
		if n > 0 {
			resp.Write(scratch[:n])
			if strings.Contains(resp.String(), want) {
				return resp.String(), nil
			}
			if strings.Contains(resp.String(), at.ERROR) {
				return resp.String(), fmt.Errorf("command %q: %w", cmd, ErrCommandFailed)
			}
		}
		// The deadline is checked every iteration, even while bytes
		// keep arriving, so a chattering line cannot stall the wait.
		if deadline.Expired(time.Now()) {
			return resp.String(), fmt.Errorf("command %q waiting for %q: %w", cmd, want, ErrTimeout)
		}
		if n == 0 {
			m.config.sleep(m.config.PollInterval)
		}
	}
}

// CollectFor drains the line for a fixed window and returns whatever
// arrived. Used to absorb trailing modem output after a command whose
// completion is not token-delimited.
func (m *Modem) CollectFor(ctx context.Context, window time.Duration) string {
	deadline := at.DeadlineAfter(time.Now(), window)
	var resp strings.Builder
	scratch := make([]byte, 256)

	for !deadline.Expired(time.Now()) {
		if ctx.Err() != nil {
			break
		}
		if n, _ := m.line.Read(scratch); n > 0 {
			resp.Write(scratch[:n])
			continue
		}
		m.config.sleep(m.config.PollInterval)
	}
	return resp.String()
}

// ReadLine accumulates bytes until the tokenizer recognizes a full
// CRLF-terminated line and returns it without its terminator. It reads
// one byte at a time so that no bytes beyond the line are consumed
// from the stream, which matters when binary payload follows the line.
func (m *Modem) ReadLine(ctx context.Context, timeout time.Duration) (string, error) {
	deadline := at.DeadlineAfter(time.Now(), timeout)
	var raw []byte
	b := make([]byte, 1)

	for {
		if err := ctx.Err(); err != nil {
			return string(raw), err
		}
		n, _ := m.line.Read(b)
		if n > 0 {
			raw = append(raw, b[0])
			if advance, token, _ := at.Splitter(raw, false); advance > 0 {
				return string(token), nil
			}
		}
		if deadline.Expired(time.Now()) {
			return string(raw), fmt.Errorf("waiting for line: %w", ErrTimeout)
		}
		if n == 0 {
			m.config.sleep(m.config.PollInterval)
		}
	}
}

// WriteRaw sends bytes to the modem without a terminator, for command
// payloads such as the URL body.
func (m *Modem) WriteRaw(p []byte) error {
	_, err := m.line.Write(p)
	return err
}

// Available reports the number of buffered inbound bytes.
func (m *Modem) Available() int { return m.line.Available() }

// Read copies buffered inbound bytes into p without blocking.
func (m *Modem) Read(p []byte) (int, error) { return m.line.Read(p) }

// Overruns reports how many inbound bytes the line has dropped.
func (m *Modem) Overruns() int { return m.line.Overruns() }

// PowerCycle runs the full hardware reset sequence: reset pulse, long
// low hold, power-key press, long release. It is idempotent and is
// used both at first boot and before each attach retry.
func (m *Modem) PowerCycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("power cycling modem")

	if err := m.lines.SetReset(true); err != nil {
		return fmt.Errorf("assert reset: %w", err)
	}
	m.config.sleep(resetPulseHigh)
	if err := m.lines.SetReset(false); err != nil {
		return fmt.Errorf("release reset: %w", err)
	}
	m.config.sleep(resetHoldLow)

	if err := m.lines.SetPowerKey(true); err != nil {
		return fmt.Errorf("assert power key: %w", err)
	}
	m.config.sleep(powerKeyHigh)
	if err := m.lines.SetPowerKey(false); err != nil {
		return fmt.Errorf("release power key: %w", err)
	}
	m.config.sleep(powerKeyLow)
	return nil
}

// attach brings the data context up: echo off, SIM ready, stale
// context teardown, APN configuration, context activation. Each
// required step must succeed before the next runs.
func (m *Modem) attach(ctx context.Context) error {
	base := ATTimeout
	if m.config.ATTimeout > 0 {
		base = m.config.ATTimeout
	}

	// Best effort; some firmwares answer echo off with nothing useful.
	m.Exec(ctx, at.CmdEchoOff, at.OK, base)

	if _, err := m.Exec(ctx, at.CmdSimStatus, at.SimReady, simTimeoutFactor*base); err != nil {
		return fmt.Errorf("SIM not ready: %w", err)
	}

	// Stale contexts are torn down best effort; a modem with no active
	// context rejects this and that is fine.
	m.Exec(ctx, at.CmdDeactivate, at.OK, deactTimeoutFactor*base)

	if _, err := m.Exec(ctx, at.CmdAPN(m.config.APN), at.OK, apnTimeoutFactor*base); err != nil {
		return fmt.Errorf("configure APN %q: %w", m.config.APN, err)
	}

	if _, err := m.Exec(ctx, at.CmdActivate, at.OK, activateTimeoutFactor*base); err != nil {
		return fmt.Errorf("activate data context: %w", err)
	}
	return nil
}

// BringOnline powers the modem and attaches to the network, retrying
// the full power-cycle-plus-attach sequence up to the configured
// budget. Each retry pays the complete reset cost instead of a short
// backoff: the dominant failure mode on this hardware is a wedged
// modem, which only a reset clears.
func (m *Modem) BringOnline(ctx context.Context) error {
	for attempt := 1; attempt <= m.config.AttachRetries; attempt++ {
		if err := m.PowerCycle(ctx); err != nil {
			return err
		}
		m.logger.Info("attaching to network", "attempt", attempt)
		err := m.attach(ctx)
		if err == nil {
			m.logger.Info("network attached", "attempt", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger.Warn("attach failed", "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%w after %d attempts", ErrAttachFailed, m.config.AttachRetries)
}
