package config

import (
	"errors"
	"fmt"
)

var screenerModes = map[string]struct{}{
	"standard": {},
	"relaxed":  {},
	"testing":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScreener(); err != nil {
		return err
	}
	if err := c.validateReporter(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ProjectRoot == "" {
		return errors.New("paths.project_root must be set")
	}
	if c.Paths.ScriptsDir == "" {
		return errors.New("paths.scripts_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.Interpreter == "" {
		return errors.New("paths.interpreter must be set")
	}
	return nil
}

func (c *Config) validateScreener() error {
	if _, ok := screenerModes[c.Screener.Mode]; !ok {
		return fmt.Errorf("screener.mode must be one of standard, relaxed, testing (got %q)", c.Screener.Mode)
	}
	return nil
}

func (c *Config) validateReporter() error {
	if _, err := ParseWeekday(c.Reporter.Weekday); err != nil {
		return fmt.Errorf("reporter.weekday: %w", err)
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if c.Cleanup.Enabled && c.Cleanup.MaxAgeDays <= 0 {
		return errors.New("cleanup.max_age_days must be positive when cleanup.enabled is true")
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
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
