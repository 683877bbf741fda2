package config

const (
	defaultStashURL             = "http://localhost:9999"
	defaultStashRequestTimeout  = 30
	defaultJPEGQuality          = 90
	defaultDataDir              = "~/.local/share/stashsweep"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
//
// Stash.URL is intentionally left empty here so normalization can tell a file
// that omitted it apart from one that set it, keeping the precedence
// file > STASH_URL > built-in default.
func Default() Config {
	return Config{
		Stash: Stash{
			RequestTimeout: defaultStashRequestTimeout,
		},
		Sweep: Sweep{
			JPEGQuality: defaultJPEGQuality,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
