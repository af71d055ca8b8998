package config

const (
	defaultMPDHost          = "localhost"
	defaultMPDPort          = 6600
	defaultMPDTimeout       = 10
	defaultBatchSize        = 10000
	defaultRandomArtistTag  = "albumartist"
	defaultRandomTrackCount = 20
	defaultAPIBind          = "127.0.0.1:8015"
	defaultPublicDir        = "/usr/share/clerk-web"
	defaultMenuPrompt       = "clerk"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		MPD: MPD{
			Host:           defaultMPDHost,
			Port:           defaultMPDPort,
			TimeoutSeconds: defaultMPDTimeout,
		},
		Library: Library{
			DataDir:          defaultDataDir(),
			BatchSize:        defaultBatchSize,
			RandomArtistTag:  defaultRandomArtistTag,
			RandomTrackCount: defaultRandomTrackCount,
		},
		Daemon: Daemon{
			APIBind:   defaultAPIBind,
			PublicDir: defaultPublicDir,
		},
		Menu: Menu{
			Command: []string{"rofi", "-dmenu", "-i", "-multi-select", "-p", "PROMPT"},
			Prompt:  defaultMenuPrompt,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
