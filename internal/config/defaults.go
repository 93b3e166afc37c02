package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4351,
			Host: "localhost",
		},
		Source: SourceConfig{
			Strategy:      StrategyLocal,
			PollSeconds:   5,
			ResyncSeconds: 5,
		},
		Journal: JournalConfig{
			PropFirm: "N/A",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/signal-center",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
