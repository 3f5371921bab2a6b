package config

const (
	defaultConfigPath        = "~/.config/opensynth/config.toml"
	defaultDataDir           = "~/.local/share/opensynth/public"
	defaultIndexFile         = "data/index.json"
	defaultStateDir          = "~/.local/share/opensynth/state"
	defaultLogDir            = "~/.local/share/opensynth/logs"
	defaultAPIBind           = "127.0.0.1:7490"
	defaultSourceTimeout     = 15
	defaultQuizStorageKey    = "openSynth_quizSettings"
	defaultRenderCommand     = "obabel"
	defaultRenderWidth       = 300
	defaultRenderHeight      = 250
	defaultRenderTheme       = "light"
	defaultRenderTimeout     = 10
	defaultViewerIdleMinutes = 60
	defaultIndexTTLSeconds   = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	SourceDir                = "dir"
	SourceHTTP               = "http"
	envDataDir               = "OPENSYNTH_DATA_DIR"
	envSourceURL             = "OPENSYNTH_SOURCE_URL"
	envAPIToken              = "OPENSYNTH_API_TOKEN"
)

// DefaultQuizCategories lists every quiz category hidden on first use.
var DefaultQuizCategories = []string{"reactant", "name", "conditions", "product", "notes"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			IndexFile: defaultIndexFile,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Source: Source{
			Kind:           SourceDir,
			TimeoutSeconds: defaultSourceTimeout,
		},
		Quiz: Quiz{
			StorageKey:    defaultQuizStorageKey,
			DefaultHidden: append([]string(nil), DefaultQuizCategories...),
		},
		Render: Render{
			Command:        defaultRenderCommand,
			Args:           []string{"-:{notation}", "-osvg", "-xC", "-xP{width}"},
			Width:          defaultRenderWidth,
			Height:         defaultRenderHeight,
			Theme:          defaultRenderTheme,
			TimeoutSeconds: defaultRenderTimeout,
		},
		Viewer: Viewer{
			IdleTimeoutMinutes: defaultViewerIdleMinutes,
		},
		Cache: Cache{
			IndexTTLSeconds: defaultIndexTTLSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
