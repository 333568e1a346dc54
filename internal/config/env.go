package config

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (TELEMSHIP_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", os.Getenv("TELEMSHIP_ENDPOINT_URL"), &cfg.EndpointURL)
	s.setString("spool-dir", os.Getenv("TELEMSHIP_SPOOL_DIR"), &cfg.SpoolDir)

	if err := s.setIntFromString("max-spool-files", os.Getenv("TELEMSHIP_MAX_SPOOL_FILES"), &cfg.MaxSpoolFiles); err != nil {
		return err
	}
	if err := s.setIntFromString("max-requests", os.Getenv("TELEMSHIP_MAX_REQUESTS"), &cfg.MaxRequests); err != nil {
		return err
	}

	if err := s.setDuration("connect-timeout", os.Getenv("TELEMSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("TELEMSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("send-interval", os.Getenv("TELEMSHIP_SEND_INTERVAL"), &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("backoff-max", os.Getenv("TELEMSHIP_BACKOFF_MAX"), &cfg.BackoffMax); err != nil {
		return err
	}

	if err := s.setBoolFromString("compress", os.Getenv("TELEMSHIP_COMPRESS"), &cfg.Compress); err != nil {
		return err
	}
	if err := s.setBoolFromString("log-payloads", os.Getenv("TELEMSHIP_LOG_PAYLOADS"), &cfg.LogPayloads); err != nil {
		return err
	}
	if err := s.setBoolFromString("watch-spool", os.Getenv("TELEMSHIP_WATCH_SPOOL"), &cfg.WatchSpool); err != nil {
		return err
	}

	return nil
}
