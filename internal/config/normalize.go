package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStash(); err != nil {
		return err
	}
	c.normalizeSweep()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeStash() error {
	c.Stash.URL = strings.TrimSpace(c.Stash.URL)
	if c.Stash.URL == "" {
		if value, ok := os.LookupEnv("STASH_URL"); ok {
			c.Stash.URL = strings.TrimSpace(value)
		}
	}
	if c.Stash.URL == "" {
		c.Stash.URL = defaultStashURL
	}
	c.Stash.URL = strings.TrimRight(c.Stash.URL, "/")

	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)
	if c.Stash.APIKey == "" {
		if value, ok := os.LookupEnv("STASH_API_KEY"); ok {
			c.Stash.APIKey = strings.TrimSpace(value)
		}
	}

	if c.Stash.RequestTimeout <= 0 {
		c.Stash.RequestTimeout = defaultStashRequestTimeout
	}
	return nil
}

func (c *Config) normalizeSweep() {
	if c.Sweep.JPEGQuality <= 0 {
		c.Sweep.JPEGQuality = defaultJPEGQuality
	}
	if c.Sweep.BatchLimit < 0 {
		c.Sweep.BatchLimit = 0
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	if c.Paths.LogDir != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
