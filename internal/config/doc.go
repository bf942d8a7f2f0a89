// Package config loads runtime configuration for the diary CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. DIARY_* environment variables, with a .env file (--env-file, or ./.env
//     when present) filling variables the process environment does not set.
//  4. Command-line flags the user set explicitly.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.local/share/gophdiary",
//	  "log_level": "debug",
//	  "timeout": "30s",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "bucket": "diary"}
//	}
//
// # Environment
//
//	DIARY_DATA_DIR  DIARY_LOG_LEVEL  DIARY_LOG_FORMAT  DIARY_LOG_FILE
//	DIARY_LOG_MAX_SIZE_MB  DIARY_LOG_MAX_FILES  DIARY_TIMEOUT  DIARY_BACKUP_DIR
//	DIARY_S3_ENDPOINT  DIARY_S3_REGION  DIARY_S3_BUCKET  DIARY_S3_ACCESS_KEY
//	DIARY_S3_SECRET_KEY  DIARY_S3_PREFIX
package config
