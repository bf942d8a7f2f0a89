package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

const (
	settingTheme       = "theme"
	settingShowTitle   = "show-title"
	settingOnThisDay   = "show-on-this-day"
	settingLastBackup  = "last-backup"
	settingKeysSummary = "theme, show-title, show-on-this-day"
)

func newSettingsCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change application settings",
	}
	cmd.AddCommand(newSettingsGetCommand(deps), newSettingsSetCommand(deps))
	return cmd
}

func newSettingsGetCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print all settings or a single one",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("usage: diary settings get [key]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				st, err := a.store.GetSettings(ctx)
				if err != nil {
					return err
				}

				values := map[string]string{
					settingTheme:      string(st.ThemeOrDefault()),
					settingShowTitle:  strconv.FormatBool(st.ShowTitleFieldOrDefault()),
					settingOnThisDay:  strconv.FormatBool(st.ShowOnThisDayOrDefault()),
					settingLastBackup: "never",
				}
				if st.LastBackupTimestamp != nil {
					values[settingLastBackup] = st.LastBackupTimestamp.Local().Format(time.RFC3339)
				}

				if len(args) == 1 {
					v, ok := values[args[0]]
					if !ok {
						return usageErrorf("unknown setting %q (%s, %s)", args[0], settingKeysSummary, settingLastBackup)
					}
					_, err := fmt.Fprintln(deps.out, v)
					return err
				}

				if asJSON {
					return printJSON(deps.out, st)
				}
				for _, k := range []string{settingTheme, settingShowTitle, settingOnThisDay, settingLastBackup} {
					if _, err := fmt.Fprintf(deps.out, "%s=%s\n", k, values[k]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print settings as JSON")
	return cmd
}

func newSettingsSetCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting (" + settingKeysSummary + ")",
		Args:  exactArgs(2, "settings set <key> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]

			var apply func(ctx context.Context, a *App) error
			switch key {
			case settingTheme:
				theme, err := models.ParseTheme(raw)
				if err != nil {
					return mapCommandError(err)
				}
				apply = func(ctx context.Context, a *App) error { return a.store.SetTheme(ctx, theme) }
			case settingShowTitle, settingOnThisDay:
				v, err := strconv.ParseBool(raw)
				if err != nil {
					return usageErrorf("%s expects true or false, got %q", key, raw)
				}
				apply = func(ctx context.Context, a *App) error {
					if key == settingShowTitle {
						return a.store.SetShowTitleField(ctx, v)
					}
					return a.store.SetShowOnThisDay(ctx, v)
				}
			default:
				return usageErrorf("unknown setting %q (%s)", key, settingKeysSummary)
			}

			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				if err := apply(ctx, a); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "%s=%s\n", key, raw)
				return err
			})
		},
	}
}
