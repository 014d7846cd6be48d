package config

// Config is the root configuration structure
type Config struct {
	Version     int               `yaml:"version"`
	Log         LogConfig         `yaml:"log"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Codec       CodecConfig       `yaml:"codec"`
	Distributor DistributorConfig `yaml:"distributor"`
	Journal     JournalConfig     `yaml:"journal"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" env:"EDFORGE_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"EDFORGE_LOG_FORMAT"` // text, json, logfmt
	Prefix string `yaml:"prefix,omitempty"`
}

// CatalogConfig points at an optional reference data override file
type CatalogConfig struct {
	Path string `yaml:"path,omitempty" env:"EDFORGE_CATALOG_PATH"`
}

// CodecConfig holds build code and output settings
type CodecConfig struct {
	CompressionLevel int    `yaml:"compression_level" env:"EDFORGE_COMPRESSION_LEVEL"` // zlib level, -2..9
	OutputFormat     string `yaml:"output_format" env:"EDFORGE_OUTPUT_FORMAT"`         // json, yaml, code, journal
}

// DistributorConfig holds the power distributor pips new ships start with
type DistributorConfig struct {
	Sys float64 `yaml:"sys"`
	Eng float64 `yaml:"eng"`
	Wep float64 `yaml:"wep"`
}

// JournalConfig locates the game journals followed by `edforge watch`
type JournalConfig struct {
	Dir string `yaml:"dir,omitempty" env:"EDFORGE_JOURNAL_DIR"` // empty means the game's default location
}
