package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Config holds the movierec API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Data      DataConfig      `yaml:"data"`
	Recommend RecommendConfig `yaml:"recommend"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int      `yaml:"port"`
	ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
	ShutdownSec        int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins        []string `yaml:"cors_origins"`          // empty = all origins
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"` // 0 = unlimited
}

// DataConfig locates the MovieLens CSV files.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	Movies       string `yaml:"movies"`
	Tags         string `yaml:"tags"`
	Ratings      string `yaml:"ratings"`
	GenomeScores string `yaml:"genome_scores"`
	GenomeTags   string `yaml:"genome_tags"`
	Links        string `yaml:"links"`
}

// RecommendConfig holds scoring defaults.
type RecommendConfig struct {
	DefaultTopN int                    `yaml:"default_top_n"`
	MaxTopN     int                    `yaml:"max_top_n"`
	SampleFrac  float64                `yaml:"sample_frac"` // collaborative rating sample, (0, 1]
	Seed        uint64                 `yaml:"seed"`
	Weights     recommendation.Weights `yaml:"weights"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	applyFileDefault(&c.Data.Movies, "movies.csv")
	applyFileDefault(&c.Data.Tags, "tags.csv")
	applyFileDefault(&c.Data.Ratings, "ratings.csv")
	applyFileDefault(&c.Data.GenomeScores, "genome-scores.csv")
	applyFileDefault(&c.Data.GenomeTags, "genome-tags.csv")
	applyFileDefault(&c.Data.Links, "links.csv")
	if c.Recommend.DefaultTopN <= 0 {
		c.Recommend.DefaultTopN = recommendation.DefaultTopN
	}
	if c.Recommend.MaxTopN <= 0 {
		c.Recommend.MaxTopN = 100
	}
	if c.Recommend.SampleFrac == 0 {
		c.Recommend.SampleFrac = 1
	}
	if c.Recommend.Seed == 0 {
		c.Recommend.Seed = 1
	}
	if c.Recommend.Weights.IsZero() {
		c.Recommend.Weights = recommendation.DefaultWeights()
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

func applyFileDefault(field *string, name string) {
	if *field == "" {
		*field = name
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("http.rate_limit_per_minute must not be negative, got %d", c.HTTP.RateLimitPerMinute)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("%w: recommend.max_top_n (%d) is below recommend.default_top_n (%d)",
			domain.ErrInvalidTopN, c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if !(c.Recommend.SampleFrac > 0 && c.Recommend.SampleFrac <= 1) {
		return fmt.Errorf("%w: recommend.sample_frac must be in (0, 1], got %v",
			domain.ErrInvalidSampleFrac, c.Recommend.SampleFrac)
	}
	if err := c.Recommend.Weights.Validate(); err != nil {
		return fmt.Errorf("recommend.weights: %w", err)
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "valkey", "redis":
			// ok
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return errors.New("cache.addrs is required when cache is enabled")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
