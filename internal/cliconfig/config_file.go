package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Device         string `toml:"device"`
	Baud           int    `toml:"baud"`
	ReadTimeout    string `toml:"read_timeout"`
	ReceiveTimeout string `toml:"receive_timeout"`
	PrintInterval  string `toml:"print_interval"`
	IsFile         *bool  `toml:"is_file"`
	Raw            *bool  `toml:"raw"`
	Debug          *bool  `toml:"debug"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.n2ktelem/config.toml when user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".n2ktelem", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to Config. Flags that were explicitly set on the
// command line (changed map) win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := configSetter{changed: changed}

	s.setString("device", fc.Device, &cfg.Device)
	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setBool("is-file", fc.IsFile, &cfg.IsFile)
	s.setBool("raw", fc.Raw, &cfg.Raw)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("receive-timeout", fc.ReceiveTimeout, &cfg.ReceiveTimeout); err != nil {
		return err
	}
	return s.setDuration("print-interval", fc.PrintInterval, &cfg.PrintInterval)
}

type configSetter struct {
	changed map[string]bool
}

func (s configSetter) setString(flag string, value string, target *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*target = value
}

func (s configSetter) setInt(flag string, value int, target *int) {
	if value == 0 || s.changed[flag] {
		return
	}
	*target = value
}

func (s configSetter) setBool(flag string, value *bool, target *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*target = *value
}

func (s configSetter) setDuration(flag string, value string, target *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %v: %w", flag, err)
	}
	*target = d
	return nil
}
