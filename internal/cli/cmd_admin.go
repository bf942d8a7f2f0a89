package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/metrics"
	"github.com/dmitrijs2005/gophdiary/internal/stats"
	"github.com/dmitrijs2005/gophdiary/internal/storage"
)

func newInitCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the diary database",
		Args:  exactArgs(0, "init"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				v, err := a.store.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "database %s ready (schema version %d)\n", a.store.Path(), v)
				return err
			})
		},
	}
}

func newKeysCommand(deps *commandDeps) *cobra.Command {
	var del string

	cmd := &cobra.Command{
		Use:   "keys <entries|settings>",
		Short: "List the record keys of a collection, or delete one with --delete",
		Args:  exactArgs(1, "keys <entries|settings> [--delete KEY]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := storage.ParseCollection(args[0])
			if err != nil {
				return mapCommandError(err)
			}
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				if del != "" {
					if err := a.store.DeleteByKey(ctx, c, del); err != nil {
						return err
					}
					_, err := fmt.Fprintf(deps.out, "%s/%s deleted\n", c, del)
					return err
				}

				keys, err := a.store.Keys(ctx, c)
				if err != nil {
					return err
				}
				for _, k := range keys {
					if _, err := fmt.Fprintln(deps.out, k); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&del, "delete", "", "delete the record with this key")
	return cmd
}

func newClearCommand(deps *commandDeps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry and reset settings",
		Args:  exactArgs(0, "clear --yes"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usageErrorf("clear removes all data; pass --yes to confirm")
			}
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				if err := a.store.ClearAll(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(deps.out, "all data cleared")
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}

func newStatsCommand(deps *commandDeps) *cobra.Command {
	var (
		tz     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show writing statistics",
		Args:  exactArgs(0, "stats [--tz ZONE] [--json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tz != "" {
				l, err := time.LoadLocation(tz)
				if err != nil {
					return usageErrorf("unknown time zone %q", tz)
				}
				loc = l
			}

			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				all, err := a.store.GetAllEntries(ctx)
				if err != nil {
					return err
				}
				s := stats.Compute(all, deps.now(), loc)
				if asJSON {
					return printJSON(deps.out, s)
				}

				var b strings.Builder
				fmt.Fprintf(&b, "entries:        %d (%d active, %d archived)\n", s.Total, s.Active, s.Archived)
				fmt.Fprintf(&b, "starred:        %d\n", s.Starred)
				fmt.Fprintf(&b, "edited:         %d\n", s.Edited)
				fmt.Fprintf(&b, "words:          %d (%.1f per entry)\n", s.Words, s.AverageWords)
				fmt.Fprintf(&b, "current streak: %d days\n", s.CurrentStreak)
				fmt.Fprintf(&b, "longest streak: %d days\n", s.LongestStreak)
				if s.Total > 0 {
					best := 0
					for h := range s.ByHour {
						if s.ByHour[h] > s.ByHour[best] {
							best = h
						}
					}
					fmt.Fprintf(&b, "favorite hour:  %02d:00\n", best)
				}
				_, err = fmt.Fprint(deps.out, b.String())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "time zone for days and hours (default local)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

func newVersionCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Args:  exactArgs(0, "version [--json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return printJSON(deps.out, deps.build)
			}
			_, err := fmt.Fprintf(deps.out, "version=%s commit=%s date=%s\n", deps.build.Version, deps.build.Commit, deps.build.Date)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print version as JSON")
	return cmd
}

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func newDoctorCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage and backup targets",
		Args:  exactArgs(0, "doctor [--json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				checks []doctorCheck
				failed error
			)
			add := func(name string, err error, ok string) {
				if err != nil {
					checks = append(checks, doctorCheck{Name: name, Message: err.Error()})
					if failed == nil {
						failed = err
					}
					return
				}
				checks = append(checks, doctorCheck{Name: name, OK: true, Message: ok})
			}

			a := deps.app
			if a == nil {
				cfg, err := deps.loadConfig(cmd)
				add("config", err, "loaded")
				if err == nil {
					a, err = openAppFn(cmd.Context(), cfg)
					add("storage", err, "opened "+cfg.DataDir)
					if err == nil {
						defer a.Close()
					}
				}
			}

			if a != nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout)
				defer cancel()

				v, err := a.store.SchemaVersion(ctx)
				add("schema", err, fmt.Sprintf("version %d at %s", v, a.store.Path()))

				ids, err := a.store.Keys(ctx, storage.CollectionEntries)
				add("entries", err, fmt.Sprintf("%d stored", len(ids)))

				last, err := a.store.GetLastBackupTimestamp(ctx)
				msg := "never backed up"
				if last != nil {
					msg = "last backup " + last.Local().Format(time.RFC3339)
				}
				add("backup", err, msg)

				s3 := "not configured"
				if a.cfg.S3Configured() {
					s3 = "bucket " + a.cfg.S3Bucket
					if a.cfg.S3Endpoint != "" {
						s3 += " at " + a.cfg.S3Endpoint
					}
				}
				add("s3", nil, s3)
			}

			if asJSON {
				if err := printJSON(deps.out, map[string]any{"checks": checks}); err != nil {
					return err
				}
			} else {
				for _, c := range checks {
					if _, err := fmt.Fprintf(deps.out, "%-8s %-4s %s\n", c.Name, boolToState(c.OK, "ok", "FAIL"), c.Message); err != nil {
						return err
					}
				}
				if a != nil {
					fmt.Fprintln(deps.out)
					if err := metrics.WriteSummary(deps.out, a.reg); err != nil {
						return err
					}
				}
			}
			return mapCommandError(failed)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print checks as JSON")
	return cmd
}
