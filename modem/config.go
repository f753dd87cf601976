package modem

import (
	"time"
)

// DefaultChunkSize is the streaming chunk size the inbound buffer is
// dimensioned against.
const DefaultChunkSize = 4096

// Config carries the modem construction parameters.
type Config struct {
	// Dialer opens the transport to the modem. Required.
	Dialer Dialer
	// Lines overrides the control lines used for power cycling. When
	// nil, the transport itself must implement ControlLines.
	Lines ControlLines
	// APN is the carrier access-point name used when activating the
	// data context.
	APN string
	// InboundBuffer is the capacity of the transport line's inbound
	// buffer. It must hold one full streaming chunk plus margin.
	InboundBuffer int
	// AttachRetries is the number of attach attempts made by
	// BringOnline, each preceded by a full power cycle.
	AttachRetries int
	// PollInterval is the pause between iterations of token and line
	// wait loops.
	PollInterval time.Duration
	// ATTimeout is the base window for short configuration commands;
	// the slower attach steps scale up from it. Zero means the package
	// default of one second.
	ATTimeout time.Duration

	// sleep is the delay function used by the power-cycle sequence.
	// Tests replace it so the hardware hold times do not slow them down.
	sleep func(time.Duration)
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.APN == "" {
		c.APN = "airtelgprs.com"
	}
	if c.InboundBuffer == 0 {
		c.InboundBuffer = DefaultChunkSize + 512
	}
	if c.AttachRetries == 0 {
		c.AttachRetries = 3
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Millisecond
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
}

// ConfigBuilder assembles a Config fluently.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with zero values; Build applies
// defaults and validates.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithControlLines(l ControlLines) *ConfigBuilder {
	b.config.Lines = l
	return b
}

func (b *ConfigBuilder) WithAPN(apn string) *ConfigBuilder {
	b.config.APN = apn
	return b
}

func (b *ConfigBuilder) WithInboundBuffer(n int) *ConfigBuilder {
	b.config.InboundBuffer = n
	return b
}

func (b *ConfigBuilder) WithAttachRetries(n int) *ConfigBuilder {
	b.config.AttachRetries = n
	return b
}

func (b *ConfigBuilder) WithPollInterval(d time.Duration) *ConfigBuilder {
	b.config.PollInterval = d
	return b
}

func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.ATTimeout = d
	return b
}

// WithSleepFunc replaces the delay function used between power-cycle
// line transitions. Intended for tests.
func (b *ConfigBuilder) WithSleepFunc(sleep func(time.Duration)) *ConfigBuilder {
	b.config.sleep = sleep
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	if err := b.config.validate(); err != nil {
		return Config{}, err
	}
	b.config.setDefaults()
	return b.config, nil
}
