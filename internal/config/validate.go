package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validateSweep(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStash() error {
	parsed, err := url.Parse(c.Stash.URL)
	if err != nil {
		return fmt.Errorf("stash.url is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("stash.url must use http or https, got %q", c.Stash.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("stash.url is missing a host: %q", c.Stash.URL)
	}
	if c.Stash.RequestTimeout <= 0 {
		return errors.New("stash.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSweep() error {
	if c.Sweep.JPEGQuality < 1 || c.Sweep.JPEGQuality > 100 {
		return errors.New("sweep.jpeg_quality must be between 1 and 100")
	}
	if c.Sweep.BatchLimit < 0 {
		return errors.New("sweep.batch_limit must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
