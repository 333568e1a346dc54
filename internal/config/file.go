package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	EndpointURL    string `toml:"endpoint_url"`
	SpoolDir       string `toml:"spool_dir"`
	MaxSpoolFiles  int    `toml:"max_spool_files"`
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
	SendInterval   string `toml:"send_interval"`
	BackoffMax     string `toml:"backoff_max"`
	MaxRequests    int    `toml:"max_requests"`
	Compress       *bool  `toml:"compress"`
	LogPayloads    *bool  `toml:"log_payloads"`
	WatchSpool     *bool  `toml:"watch_spool"`
	Once           *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file.
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

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.telemship/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".telemship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", fc.EndpointURL, &cfg.EndpointURL)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)

	s.setInt("max-spool-files", fc.MaxSpoolFiles, &cfg.MaxSpoolFiles)
	s.setInt("max-requests", fc.MaxRequests, &cfg.MaxRequests)

	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("send-interval", fc.SendInterval, &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("backoff-max", fc.BackoffMax, &cfg.BackoffMax); err != nil {
		return err
	}

	s.setBool("compress", fc.Compress, &cfg.Compress)
	s.setBool("log-payloads", fc.LogPayloads, &cfg.LogPayloads)
	s.setBool("watch-spool", fc.WatchSpool, &cfg.WatchSpool)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
