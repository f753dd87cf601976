package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.bug.st/serial"

	"digitalpetro.in/bpcl/fwdl/fota"
	"digitalpetro.in/bpcl/fwdl/modem"
)

// The modem session implements the downloader's view of it.
var _ fota.Session = (*modem.Modem)(nil)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("url", "", "Base URL of the firmware image")
	flag.String("apn", "", "Carrier access-point name")
	flag.String("artifact-dir", ".", "Directory the downloaded image is stored in")
	flag.String("artifact-name", "bootcode.bin", "File name of the stored image")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	modemConfig, err := modem.NewConfigBuilder().
		WithAPN(config.APN).
		WithAttachRetries(3).
		WithDialer(modem.SerialDialer{
			PortName: config.SerialPort,
			Mode: &serial.Mode{
				BaudRate: config.BaudRate,
				Parity:   serial.NoParity,
				DataBits: 8,
				StopBits: serial.OneStopBit,
			},
		}).
		Build()
	if err != nil {
		logger.Error("Failed to create modem config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	m, err := modem.New(ctx, modemConfig, logger.With("component", "modem"))
	if err != nil {
		logger.Error("Failed to create modem", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	if err := m.BringOnline(ctx); err != nil {
		logger.Error("Modem setup failed, cannot download", "error", err)
		os.Exit(1)
	}

	downloader := &fota.Downloader{
		Session:      m,
		Storage:      fota.DirStorage{Root: config.ArtifactDir},
		Logger:       logger.With("component", "fota"),
		BaseURL:      config.URL,
		ArtifactName: config.ArtifactName,
	}

	result, err := downloader.Run(ctx)
	if err != nil {
		logger.Error("Download failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Download process completed",
		"url", result.URL,
		"bytes", result.Size,
		"md5", result.Digest,
	)
}
