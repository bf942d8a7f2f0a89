package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix      = "DIARY_"
	defaultEnvFile = ".env"
)

// parseEnv overlays cfg with DIARY_* variables. Variables in the process
// environment win over the same names in the .env file. An explicitly named
// env file must exist; the default ./.env is optional.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	file := map[string]string{}
	path, required := envFile, true
	if path == "" {
		path, required = defaultEnvFile, false
	}
	vals, err := godotenv.Read(path)
	switch {
	case err == nil:
		file = vals
	case required || !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read env file %q: %w", path, err)
	}

	get := func(name string) (string, bool) {
		if v, ok := lookup(envPrefix + name); ok {
			return v, true
		}
		v, ok := file[envPrefix+name]
		return v, ok
	}

	for name, dst := range map[string]*string{
		"DATA_DIR":      &cfg.DataDir,
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FORMAT":    &cfg.LogFormat,
		"LOG_FILE":      &cfg.LogFile,
		"BACKUP_DIR":    &cfg.BackupDir,
		"S3_ENDPOINT":   &cfg.S3Endpoint,
		"S3_REGION":     &cfg.S3Region,
		"S3_BUCKET":     &cfg.S3Bucket,
		"S3_ACCESS_KEY": &cfg.S3AccessKey,
		"S3_SECRET_KEY": &cfg.S3SecretKey,
		"S3_PREFIX":     &cfg.S3Prefix,
	} {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	for name, dst := range map[string]*int{
		"LOG_MAX_SIZE_MB": &cfg.LogMaxSizeMB,
		"LOG_MAX_FILES":   &cfg.LogMaxFiles,
	} {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, envPrefix, name, v, err)
			}
			*dst = n
		}
	}

	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sTIMEOUT=%q: %v", ErrInvalidConfig, envPrefix, v, err)
		}
		cfg.Timeout = d
	}
	return nil
}
