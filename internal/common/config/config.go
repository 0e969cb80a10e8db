// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	NLU      NLUConfig      `mapstructure:"nlu"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	DebugAddress    string `mapstructure:"debug_address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- NLU pipeline configuration ---

// NLUConfig carries resource paths and the pipeline's design thresholds.
// Defaults match the calibrated values; overriding them is an operational
// escape hatch, not something to do casually.
type NLUConfig struct {
	DictionaryPath   string `mapstructure:"dictionary_path"`
	ModelPath        string `mapstructure:"model_path"`
	TrainingDataPath string `mapstructure:"training_data_path"`

	SpellMaxEditDistance int     `mapstructure:"spell_max_edit_distance"`
	SpellGuardScore      int     `mapstructure:"spell_guard_score"`       // 0-100
	FuzzyMatchThreshold  int     `mapstructure:"fuzzy_match_threshold"`   // 0-100
	OverrideConfidence   float64 `mapstructure:"override_confidence"`     // 0-1
	OutOfScopeFloor      float64 `mapstructure:"out_of_scope_floor"`      // 0-1
	MinWordsForOverride  int     `mapstructure:"min_words_for_override"`
}

// --- Session store configuration ---

type SessionsConfig struct {
	// Backend selects "memory" or "redis".
	Backend string `mapstructure:"backend"`
	// TTL in minutes; 0 keeps sessions for process lifetime, matching the
	// historical behavior.
	TTL int `mapstructure:"ttl"`
}

// --- Catalog configuration ---

type CatalogConfig struct {
	// Source selects "embedded", "file" or "postgres".
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
