package config

// RosterConfig holds the normalization policy shared by the convert and merge jobs.
type RosterConfig struct {
	// CategoryLookupTable maps set codes to categories. Nil means the built-in table.
	CategoryLookupTable    map[string]string `yaml:"category_lookup_table"`
	DefaultBasePrice       int64             `yaml:"default_base_price"`
	StrictCategoryMatching bool              `yaml:"strict_category_matching"`
	Classification         string            `yaml:"classification"`
	IDFormat               string            `yaml:"id_format"`
	MinFields              int               `yaml:"min_fields"`
}

// ExportConfig names optional database mirrors of the written roster.
type ExportConfig struct {
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresURL string `yaml:"postgres_url"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func loadRoster() RosterConfig {
	return RosterConfig{
		DefaultBasePrice:       int64EnvOrDefault(envDefaultPrice, defaultBasePrice),
		StrictCategoryMatching: boolEnvOrDefault(envStrict, defaultStrict),
		Classification:         envOrDefault(envClassification, defaultClassification),
		IDFormat:               envOrDefault(envIDFormat, defaultIDFormat),
		MinFields:              intEnvOrDefault(envMinFields, defaultMinFields),
	}
}

func loadExport() ExportConfig {
	return ExportConfig{
		SQLitePath:  envOrDefault(envSQLitePath, ""),
		PostgresURL: envOrDefault(envPostgresURL, ""),
	}
}

func loadLogging() LoggingConfig {
	return LoggingConfig{
		Level:  envOrDefault(envLogLevel, "info"),
		Format: envOrDefault(envLogFormat, "text"),
	}
}
