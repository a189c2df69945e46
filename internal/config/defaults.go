package config

const (
	defaultDebounceMS    = 1000
	defaultRemoteTimeout = 15
	defaultServerAddr    = "127.0.0.1:8787"
	defaultLogLevel      = "warn"
	defaultLogFormat     = "text"
	envWorkspaceDir      = "NAMEBOARD_DIR"
	envRemoteURL         = "NAMEBOARD_REMOTE_URL"
	envToken             = "NAMEBOARD_TOKEN"
	envProject           = "NAMEBOARD_PROJECT"
	envLogLevel          = "NAMEBOARD_LOG_LEVEL"
	envServerDataDir     = "NAMEBOARD_SERVER_DATA_DIR"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Remote: Remote{
			TimeoutSeconds: defaultRemoteTimeout,
		},
		Autosave: Autosave{
			DebounceMS: defaultDebounceMS,
		},
		Server: Server{
			Addr: defaultServerAddr,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
