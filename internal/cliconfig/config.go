// Package cliconfig holds n2ktelem command configuration: defaults, TOML file loading and
// flag override precedence.
package cliconfig

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config is fully resolved n2ktelem configuration.
type Config struct {
	// Device is path to gateway serial device (or plain file when IsFile is set)
	Device string
	// Baud is serial device baud rate
	Baud int
	// ReadTimeout is how long single serial read is allowed to block
	ReadTimeout time.Duration
	// ReceiveTimeout is how long reads may return no data before acquisition gives up
	ReceiveTimeout time.Duration
	// PrintInterval is how often consumer loop prints the telemetry snapshot
	PrintInterval time.Duration
	// IsFile treats Device as ordinary file: no handshake, EOF ends the run
	IsFile bool
	// Raw logs every raw frame line before parsing
	Raw bool
	// Debug enables debug level logging
	Debug bool
}

func DefaultConfig() Config {
	return Config{
		Device:         "/dev/ttyACM0",
		Baud:           115200,
		ReadTimeout:    100 * time.Millisecond,
		ReceiveTimeout: 5 * time.Second,
		PrintInterval:  1 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.Device == "" {
		return errors.New("device path is required")
	}
	if c.Baud <= 0 {
		return errors.New("baud rate must be positive")
	}
	if c.PrintInterval <= 0 {
		return errors.New("print interval must be positive")
	}
	return nil
}

// Logger creates console logger for the command.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
