package main

import (
	"flag"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// URL is the base address of the firmware image; a cache-busting
	// query parameter is appended per run
	URL string
	// APN is the carrier access-point name for the data context
	APN string
	// ArtifactDir is the directory the downloaded image is stored in
	ArtifactDir string
	// ArtifactName is the file name of the stored image
	ArtifactName string
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.URL = "http://digitalpetro.s3.ap-south-1.amazonaws.com/BPCL/New+PCB+Bootcode/bootcode.bin"
		c.APN = "airtelgprs.com"
		c.ArtifactDir = "."
		c.ArtifactName = "bootcode.bin"
		c.LogLevel = "info"
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if url := os.Getenv("FIRMWARE_URL"); url != "" {
			c.URL = url
		}

		if apn := os.Getenv("APN"); apn != "" {
			c.APN = apn
		}

		if dir := os.Getenv("ARTIFACT_DIR"); dir != "" {
			c.ArtifactDir = dir
		}

		if name := os.Getenv("ARTIFACT_NAME"); name != "" {
			c.ArtifactName = name
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "url":
				c.URL = f.Value.String()
			case "apn":
				c.APN = f.Value.String()
			case "artifact-dir":
				c.ArtifactDir = f.Value.String()
			case "artifact-name":
				c.ArtifactName = f.Value.String()
			case "log-level":
				c.LogLevel = f.Value.String()
			}

		})
		return nil
	}

}
