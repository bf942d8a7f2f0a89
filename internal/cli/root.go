package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/buildinfo"
	"github.com/dmitrijs2005/gophdiary/internal/config"
)

func NewRootCommand(in io.Reader, out io.Writer, build buildinfo.Info) *cobra.Command {
	return newRootCommand(&commandDeps{
		in:    in,
		out:   out,
		build: build,
		now:   time.Now,
	})
}

func newRootCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diary",
		Short:         "A local journal with backups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(deps.in)
	cmd.SetOut(deps.out)
	cmd.SetErr(deps.out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitCodeUsage, Err: err}
	})
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newInitCommand(deps),
		newAddCommand(deps),
		newShowCommand(deps),
		newListCommand(deps),
		newEditCommand(deps),
		newToggleCommand(deps, "star", "Star or unstar an entry"),
		newToggleCommand(deps, "archive", "Archive or unarchive an entry"),
		newRemoveCommand(deps),
		newStatsCommand(deps),
		newSettingsCommand(deps),
		newExportCommand(deps),
		newRestoreCommand(deps),
		newBackupsCommand(deps),
		newKeysCommand(deps),
		newClearCommand(deps),
		newVersionCommand(deps),
		newDoctorCommand(deps),
	)
	if deps.app == nil {
		cmd.AddCommand(newShellCommand(deps))
	}
	return cmd
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("usage: diary %s", usage)
		}
		return nil
	}
}

// Run executes the command line and returns the process exit code. Errors
// are printed to errOut. Errors cobra raises itself (unknown commands or
// flags) are usage errors; everything else is already mapped.
func Run(cmd *cobra.Command, args []string, errOut io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	fmt.Fprintf(errOut, "diary: %v\n", err)
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return withExit.ExitCode()
	}
	return ExitCodeUsage
}
