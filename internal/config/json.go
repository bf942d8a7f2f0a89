package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type jsonConfig struct {
	DataDir   *string         `json:"data_dir"`
	BackupDir *string         `json:"backup_dir"`
	Timeout   *timex.Duration `json:"timeout"`
	Log       *struct {
		Level     *string `json:"level"`
		Format    *string `json:"format"`
		File      *string `json:"file"`
		MaxSizeMB *int    `json:"max_size_mb"`
		MaxFiles  *int    `json:"max_files"`
	} `json:"log"`
	LogLevel *string `json:"log_level"`
	S3       *struct {
		Endpoint  *string `json:"endpoint"`
		Region    *string `json:"region"`
		Bucket    *string `json:"bucket"`
		AccessKey *string `json:"access_key"`
		SecretKey *string `json:"secret_key"`
		Prefix    *string `json:"prefix"`
	} `json:"s3"`
}

// parseJSON overlays cfg with the fields present in the file at path.
// An empty path loads nothing.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("%w: parse %q: %v", ErrInvalidConfig, path, err)
	}

	set(&cfg.DataDir, jc.DataDir)
	set(&cfg.BackupDir, jc.BackupDir)
	set(&cfg.LogLevel, jc.LogLevel)
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if l := jc.Log; l != nil {
		set(&cfg.LogLevel, l.Level)
		set(&cfg.LogFormat, l.Format)
		set(&cfg.LogFile, l.File)
		set(&cfg.LogMaxSizeMB, l.MaxSizeMB)
		set(&cfg.LogMaxFiles, l.MaxFiles)
	}
	if s := jc.S3; s != nil {
		set(&cfg.S3Endpoint, s.Endpoint)
		set(&cfg.S3Region, s.Region)
		set(&cfg.S3Bucket, s.Bucket)
		set(&cfg.S3AccessKey, s.AccessKey)
		set(&cfg.S3SecretKey, s.SecretKey)
		set(&cfg.S3Prefix, s.Prefix)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
