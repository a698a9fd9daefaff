package config

import (
	"path/filepath"
	"strings"
)

// normalize expands user paths, trims free-form strings, and derives
// dependent defaults before validation runs.
func (c *Config) normalize() error {
	var err error

	for _, field := range []*string{
		&c.Paths.ProjectRoot,
		&c.Paths.ScriptsDir,
		&c.Paths.LogDir,
		&c.Paths.Interpreter,
	} {
		*field, err = expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.LogDir, "history.db")
	} else {
		c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB))
		if err != nil {
			return err
		}
	}

	c.Screener.Mode = strings.ToLower(strings.TrimSpace(c.Screener.Mode))
	c.Reporter.Weekday = strings.ToLower(strings.TrimSpace(c.Reporter.Weekday))
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}
