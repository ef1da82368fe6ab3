package config

const (
	defaultStateDir             = "~/.local/share/themesync"
	defaultLogDir               = "~/.local/share/themesync/logs"
	defaultThemeFile            = "theme.mp3"
	defaultMovieLibrary         = "Movies"
	defaultFuzzyThreshold       = 0.70
	defaultRetryCooldownMinutes = 60
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNtfyRequestTimeout   = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			MovieLibrary: defaultMovieLibrary,
		},
		Drive: Drive{
			ThemeFile: defaultThemeFile,
		},
		Matching: Matching{
			FuzzyThreshold: defaultFuzzyThreshold,
		},
		Sync: Sync{
			RetryCooldownMinutes: defaultRetryCooldownMinutes,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
	}
}
