package cliconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ReceiveTimeout)
	assert.Equal(t, 1*time.Second, cfg.PrintInterval)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	var testCases = []struct {
		name        string
		when        func(cfg *Config)
		expectError string
	}{
		{
			name:        "nok, missing device",
			when:        func(cfg *Config) { cfg.Device = "" },
			expectError: "device path is required",
		},
		{
			name:        "nok, zero baud",
			when:        func(cfg *Config) { cfg.Baud = 0 },
			expectError: "baud rate must be positive",
		},
		{
			name:        "nok, zero print interval",
			when:        func(cfg *Config) { cfg.PrintInterval = 0 },
			expectError: "print interval must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.when(&cfg)

			assert.EqualError(t, cfg.Validate(), tc.expectError)
		})
	}
}
