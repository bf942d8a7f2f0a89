package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by BindFlags and parseFlags.
const (
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
	FlagDataDir   = "data-dir"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagLogFile   = "log-file"
	FlagTimeout   = "timeout"
)

// BindFlags registers the configuration flags on fs. Their defaults are
// placeholders: parseFlags only applies flags the user actually set.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.String(FlagEnvFile, "", "path to a .env file (default ./.env if present)")
	fs.String(FlagDataDir, "", "directory holding the diary database")
	fs.String(FlagLogLevel, defaultLogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, defaultLogFormat, "log format: text or json")
	fs.String(FlagLogFile, "", "write logs to this file with rotation instead of stderr")
	fs.Duration(FlagTimeout, defaultTimeout, "timeout for a single command")
}

// OptionsFromFlags builds LoadOptions from a flag set populated by BindFlags.
func OptionsFromFlags(fs *pflag.FlagSet) LoadOptions {
	opts := LoadOptions{Flags: fs}
	if fs == nil {
		return opts
	}
	opts.ConfigPath, _ = fs.GetString(FlagConfig)
	opts.EnvFile, _ = fs.GetString(FlagEnvFile)
	return opts
}

func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	for name, dst := range map[string]*string{
		FlagDataDir:   &cfg.DataDir,
		FlagLogLevel:  &cfg.LogLevel,
		FlagLogFormat: &cfg.LogFormat,
		FlagLogFile:   &cfg.LogFile,
	} {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}

	if f := fs.Lookup(FlagTimeout); f != nil && f.Changed {
		d, err := fs.GetDuration(FlagTimeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	return nil
}
