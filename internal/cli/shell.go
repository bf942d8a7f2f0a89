package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// runREPL reads commands line by line from reader and hands each one to
// exec. The loop ends on EOF or when the user types "exit" or "quit".
// Command errors are printed and the loop keeps going.
func runREPL(ctx context.Context, exec func(ctx context.Context, args []string) error, prompt string, reader *bufio.Reader) {
	for {
		printlnFn(prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := splitArgs(line)

		switch {
		case len(parts) == 0:
		case parts[0] == "help":
			printlnFn("Available commands: add, show, (l)ist, edit, star, archive, rm, stats, settings, export, restore, backups, keys, clear, doctor, version, exit")
			printlnFn("Type <command> --help for details.")
		case parts[0] == "exit" || parts[0] == "quit":
			printlnFn("Bye!")
			return
		case parts[0] == "shell":
			printlnFn("Already in the shell")
		default:
			if err := exec(ctx, parts); err != nil {
				printlnFn("Error:", err)
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// splitArgs splits a line on whitespace, keeping single- or double-quoted
// runs together.
func splitArgs(line string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}

func newShellCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  exactArgs(0, "shell"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.loadConfig(cmd)
			if err != nil {
				return mapCommandError(fmt.Errorf("load config: %w", err))
			}
			a, err := openAppFn(cmd.Context(), cfg)
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			reader := bufio.NewReader(deps.in)
			shared := &commandDeps{
				in:    reader,
				out:   deps.out,
				build: deps.build,
				app:   a,
				now:   deps.now,
			}

			printlnFn("Diary shell (type 'help' for commands)")
			runREPL(cmd.Context(), func(ctx context.Context, args []string) error {
				root := newRootCommand(shared)
				root.SetArgs(args)
				return root.ExecuteContext(ctx)
			}, "diary> ", reader)
			return nil
		},
	}
}
