// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_REDIS_ADDRESS
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "butik-nlu"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15000
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Pipeline thresholds; the calibrated design values
	if cfg.NLU.SpellMaxEditDistance == 0 {
		cfg.NLU.SpellMaxEditDistance = 2
	}
	if cfg.NLU.SpellGuardScore == 0 {
		cfg.NLU.SpellGuardScore = 70
	}
	if cfg.NLU.FuzzyMatchThreshold == 0 {
		cfg.NLU.FuzzyMatchThreshold = 80
	}
	if cfg.NLU.OverrideConfidence == 0 {
		cfg.NLU.OverrideConfidence = 0.60
	}
	if cfg.NLU.OutOfScopeFloor == 0 {
		cfg.NLU.OutOfScopeFloor = 0.5
	}
	if cfg.NLU.MinWordsForOverride == 0 {
		cfg.NLU.MinWordsForOverride = 2
	}

	if cfg.Sessions.Backend == "" {
		cfg.Sessions.Backend = "memory"
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "embedded"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Sessions.Backend {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis session backend")
		}
	default:
		return fmt.Errorf("sessions.backend must be \"memory\" or \"redis\", got %q", cfg.Sessions.Backend)
	}

	switch cfg.Catalog.Source {
	case "embedded":
	case "file":
		if cfg.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file catalog source")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres catalog source")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres catalog source")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("catalog.source must be \"embedded\", \"file\" or \"postgres\", got %q", cfg.Catalog.Source)
	}

	if cfg.NLU.OverrideConfidence < 0 || cfg.NLU.OverrideConfidence > 1 {
		return fmt.Errorf("nlu.override_confidence must be in [0,1]")
	}
	if cfg.NLU.OutOfScopeFloor < 0 || cfg.NLU.OutOfScopeFloor > 1 {
		return fmt.Errorf("nlu.out_of_scope_floor must be in [0,1]")
	}
	if cfg.NLU.SpellGuardScore < 0 || cfg.NLU.SpellGuardScore > 100 {
		return fmt.Errorf("nlu.spell_guard_score must be in [0,100]")
	}
	if cfg.NLU.FuzzyMatchThreshold < 0 || cfg.NLU.FuzzyMatchThreshold > 100 {
		return fmt.Errorf("nlu.fuzzy_match_threshold must be in [0,100]")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// SessionTTL returns the configured session TTL as a duration; zero means
// sessions live for the process lifetime.
func (s SessionsConfig) SessionTTL() time.Duration {
	return time.Duration(s.TTL) * time.Minute
}
