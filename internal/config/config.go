package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
)

const (
	appDirName          = "gophdiary"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 3
	defaultTimeout      = 30 * time.Second
	defaultS3Region     = "us-east-1"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the diary CLI.
type Config struct {
	DataDir string

	LogLevel     string
	LogFormat    string
	LogFile      string
	LogMaxSizeMB int
	LogMaxFiles  int

	// Timeout bounds a single command's storage work.
	Timeout time.Duration

	// BackupDir defaults to <DataDir>/backups.
	BackupDir string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// LoadOptions tells Load where to look. Zero values are fine: no JSON file,
// ./.env if present, the process environment and no flags.
type LoadOptions struct {
	ConfigPath string
	EnvFile    string
	LookupEnv  func(string) (string, bool)
	Flags      *pflag.FlagSet
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.LogLevel = defaultLogLevel
	c.LogFormat = defaultLogFormat
	c.LogFile = ""
	c.LogMaxSizeMB = defaultLogMaxSizeMB
	c.LogMaxFiles = defaultLogMaxFiles
	c.Timeout = defaultTimeout
	c.BackupDir = ""
	c.S3Region = defaultS3Region
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDirName)
	}
	return "." + appDirName
}

// Load constructs a Config, applies defaults, then overlays the JSON file,
// the environment and finally explicitly set flags.
func Load(opts LoadOptions) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, opts.ConfigPath); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, opts.EnvFile, opts.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, opts.Flags); err != nil {
		return nil, err
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.DataDir, "backups")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first field that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data dir is empty", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxFiles < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoggingOptions maps the log fields onto logging.Options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		File:      c.LogFile,
		MaxSizeMB: c.LogMaxSizeMB,
		MaxFiles:  c.LogMaxFiles,
	}
}

// S3Configured reports whether enough is set to build an S3 sink.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != ""
}
