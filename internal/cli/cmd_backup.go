package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/backup"
	"github.com/dmitrijs2005/gophdiary/internal/config"
)

var newS3SinkFn = func(ctx context.Context, cfg *config.Config) (*backup.S3Sink, error) {
	return backup.NewS3Sink(ctx, backup.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Prefix:    cfg.S3Prefix,
	})
}

type backupTarget interface {
	backup.Sink
	backup.Source
}

// target picks the backup location: the configured S3 bucket when useS3 is
// set, the backup directory otherwise.
func target(ctx context.Context, a *App, useS3 bool) (backupTarget, string, error) {
	if useS3 {
		if !a.cfg.S3Configured() {
			return nil, "", usageErrorf("s3 bucket is not configured (DIARY_S3_BUCKET)")
		}
		s, err := newS3SinkFn(ctx, a.cfg)
		if err != nil {
			return nil, "", err
		}
		return s, "s3://" + a.cfg.S3Bucket, nil
	}
	f, err := backup.NewFileSink(a.cfg.BackupDir)
	if err != nil {
		return nil, "", err
	}
	return f, f.Dir(), nil
}

func newExportCommand(deps *commandDeps) *cobra.Command {
	var (
		output string
		name   string
		useS3  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of all entries and settings",
		Long: "Write a backup of all entries and settings. By default the backup is stored in the " +
			"backup directory under a timestamped name; --output - writes it to stdout.",
		Args: exactArgs(0, "export [--output FILE|-] [--s3] [--name NAME]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && useS3 {
				return usageErrorf("--output and --s3 are mutually exclusive")
			}
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				switch output {
				case "-":
					return a.backups.Export(ctx, deps.out)
				case "":
				default:
					f, err := os.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
					if err != nil {
						return err
					}
					if err := a.backups.Export(ctx, f); err != nil {
						_ = f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					_, err = fmt.Fprintln(deps.out, output)
					return err
				}

				t, where, err := target(ctx, a, useS3)
				if err != nil {
					return err
				}
				n := name
				if n == "" {
					n = backup.BackupName(deps.now())
				}
				if err := a.backups.ExportTo(ctx, t, n); err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "%s/%s\n", where, n)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file, or - for stdout")
	cmd.Flags().StringVar(&name, "name", "", "backup name in the target (default diary-backup-<timestamp>.json)")
	cmd.Flags().BoolVar(&useS3, "s3", false, "store the backup in the configured S3 bucket")
	return cmd
}

func newRestoreCommand(deps *commandDeps) *cobra.Command {
	var useS3 bool

	cmd := &cobra.Command{
		Use:   "restore <file|name|->",
		Short: "Replace all entries with the contents of a backup",
		Long: "Replace all entries with the contents of a backup. The argument is a file path, a " +
			"backup name in the backup directory (or S3 bucket with --s3), or - for stdin.",
		Args: exactArgs(1, "restore <file|name|-> [--s3]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				var err error
				switch {
				case src == "-" && !useS3:
					err = a.backups.Restore(ctx, deps.in)
				case !useS3 && isFile(src):
					f, openErr := os.Open(src)
					if openErr != nil {
						return openErr
					}
					err = a.backups.Restore(ctx, f)
					_ = f.Close()
				default:
					t, _, tErr := target(ctx, a, useS3)
					if tErr != nil {
						return tErr
					}
					err = a.backups.RestoreFrom(ctx, t, src)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "restored from %s\n", src)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&useS3, "s3", false, "read the backup from the configured S3 bucket")
	return cmd
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func newBackupsCommand(deps *commandDeps) *cobra.Command {
	var useS3 bool

	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List stored backups",
		Args:  exactArgs(0, "backups [--s3]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				t, _, err := target(ctx, a, useS3)
				if err != nil {
					return err
				}
				names, err := t.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					_, err := fmt.Fprintln(deps.out, "no backups")
					return err
				}
				for _, n := range names {
					if _, err := fmt.Fprintln(deps.out, n); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&useS3, "s3", false, "list the configured S3 bucket")
	return cmd
}
