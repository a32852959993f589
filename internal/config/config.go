package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 9040
	DefaultLogLevel    = "info"
	DefaultMinWords    = 5
	DefaultMaxWords    = 100
	DefaultMaxCoverage = 40.0

	// Directory permissions
	DefaultDirPerm = 0o750
)

var defaultKeywords = []string{"shall", "must", "will", "should"}

// Config holds all configuration for the requirement extraction server.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Database configuration
	DatabasePath   string
	MigrationsPath string

	// Document directories
	StorageDir string
	OutputDir  string

	// Extraction configuration
	Keywords    []string
	MinWords    int
	MaxWords    int
	MaxCoverage float64

	// Optional redis event stream, disabled when empty
	RedisAddr string

	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		DatabasePath:   "reqsift.db",
		MigrationsPath: "db/migrations",
		StorageDir:     "storage",
		OutputDir:      "output",
		Keywords:       defaultKeywords,
		MinWords:       DefaultMinWords,
		MaxWords:       DefaultMaxWords,
		MaxCoverage:    DefaultMaxCoverage,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, dir := range []*string{&cfg.StorageDir, &cfg.OutputDir, &cfg.MigrationsPath} {
		if expanded, err := filepath.Abs(*dir); err == nil {
			*dir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("REQSIFT")
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("db", cfg.DatabasePath)
	viper.SetDefault("migrations", cfg.MigrationsPath)
	viper.SetDefault("storagedir", cfg.StorageDir)
	viper.SetDefault("outputdir", cfg.OutputDir)
	viper.SetDefault("keywords", cfg.Keywords)
	viper.SetDefault("minwords", cfg.MinWords)
	viper.SetDefault("maxwords", cfg.MaxWords)
	viper.SetDefault("maxcoverage", cfg.MaxCoverage)
	viper.SetDefault("redisaddr", cfg.RedisAddr)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("host", cfg.Host, "Server host address")
	pflag.Int("port", cfg.Port, "Server port")
	pflag.String("db", cfg.DatabasePath, "Path to the sqlite database file")
	pflag.String("migrations", cfg.MigrationsPath, "Path to the schema migrations directory")
	pflag.String("storagedir", cfg.StorageDir, "Directory for uploaded documents")
	pflag.String("outputdir", cfg.OutputDir, "Directory for annotated output documents")
	pflag.StringSlice("keywords", cfg.Keywords, "Keywords marking a sentence as a requirement")
	pflag.Int("minwords", cfg.MinWords, "Minimum words for a requirement candidate")
	pflag.Int("maxwords", cfg.MaxWords, "Maximum words for a requirement candidate")
	pflag.Float64("maxcoverage", cfg.MaxCoverage, "Maximum page coverage of a highlight in percent")
	pflag.String("redisaddr", cfg.RedisAddr, "Redis address for the event stream (disabled when empty)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlagsToViper() {
	for _, name := range []string{
		"host", "port", "db", "migrations", "storagedir", "outputdir",
		"keywords", "minwords", "maxwords", "maxcoverage", "redisaddr", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

func populateConfigFromViper(cfg *Config) {
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DatabasePath = viper.GetString("db")
	cfg.MigrationsPath = viper.GetString("migrations")
	cfg.StorageDir = viper.GetString("storagedir")
	cfg.OutputDir = viper.GetString("outputdir")
	cfg.Keywords = viper.GetStringSlice("keywords")
	cfg.MinWords = viper.GetInt("minwords")
	cfg.MaxWords = viper.GetInt("maxwords")
	cfg.MaxCoverage = viper.GetFloat64("maxcoverage")
	cfg.RedisAddr = viper.GetString("redisaddr")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid, creating missing document
// directories.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DatabasePath == "" {
		return errors.New("database path cannot be empty")
	}

	if len(c.Keywords) == 0 {
		return errors.New("keyword list cannot be empty")
	}

	if c.MinWords < 1 {
		return errors.New("minimum word count must be positive")
	}
	if c.MaxWords < c.MinWords {
		return errors.New("maximum word count must not be below the minimum")
	}

	if c.MaxCoverage <= 0 || c.MaxCoverage > 100 {
		return errors.New("maximum coverage must be between 0 and 100 percent")
	}

	for _, dir := range []string{c.StorageDir, c.OutputDir} {
		if dir == "" {
			return errors.New("document directories cannot be empty")
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
