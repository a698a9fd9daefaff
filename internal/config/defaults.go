package config

const (
	defaultProjectRoot          = "~/trading-system"
	defaultScriptsDir           = "~/trading-system/scripts"
	defaultLogDir               = "~/trading-system/logs"
	defaultInterpreter          = "~/trading-system/venv/bin/python"
	defaultScreenerMode         = "testing"
	defaultReporterWeekday      = "sunday"
	defaultCleanupMaxAgeDays    = 30
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectRoot: defaultProjectRoot,
			ScriptsDir:  defaultScriptsDir,
			LogDir:      defaultLogDir,
			Interpreter: defaultInterpreter,
		},
		Screener: Screener{
			Mode: defaultScreenerMode,
		},
		Reporter: Reporter{
			Weekday: defaultReporterWeekday,
		},
		Cleanup: Cleanup{
			MaxAgeDays: defaultCleanupMaxAgeDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunStart:       false,
			RunComplete:    true,
			Errors:         true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
