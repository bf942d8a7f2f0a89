package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/entries"
)

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := models.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, usageErrorf("invalid --%s: %v", name, err)
	}
	return t, nil
}

func newAddCommand(deps *commandDeps) *cobra.Command {
	var title, date string

	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Write a new entry",
		Long:  "Write a new entry. Without content arguments the body is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}

			content := strings.Join(args, " ")
			if content == "" {
				if content, err = readContent(deps.in, deps.out); err != nil {
					return mapCommandError(err)
				}
			}
			if strings.TrimSpace(content) == "" && strings.TrimSpace(title) == "" {
				return usageErrorf("entry is empty")
			}

			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				id, err := a.store.CreateEntry(ctx, models.NewEntry{
					Title:     title,
					Content:   content,
					CreatedAt: created,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(deps.out, id)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "entry title")
	cmd.Flags().StringVar(&date, "date", "", "creation time (RFC 3339 or YYYY-MM-DD), default now")
	return cmd
}

func newShowCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  exactArgs(1, "show <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				e, err := a.store.GetEntry(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(deps.out, e)
				}
				return printEntry(deps.out, *e)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry as JSON")
	return cmd
}

type listOptions struct {
	starred   bool
	archived  bool
	all       bool
	search    string
	from      string
	to        string
	onThisDay bool
	sort      string
	desc      bool
	limit     uint64
	offset    uint64
	asJSON    bool
}

func (o listOptions) filter(now time.Time) (entries.Filter, error) {
	var f entries.Filter

	if o.archived && o.all {
		return f, usageErrorf("--archived and --all are mutually exclusive")
	}
	switch {
	case o.archived:
		f.Archived = models.Ptr(true)
	case !o.all:
		f.Archived = models.Ptr(false)
	}
	if o.starred {
		f.Starred = models.Ptr(true)
	}
	if o.onThisDay {
		f.OnThisDay = models.Ptr(now)
	}

	var err error
	if f.From, err = parseDateFlag("from", o.from); err != nil {
		return f, err
	}
	if f.To, err = parseDateFlag("to", o.to); err != nil {
		return f, err
	}

	sortField, ok := entries.ParseSortField(o.sort)
	if !ok {
		return f, usageErrorf("unknown sort %q (created, updated, title, words)", o.sort)
	}
	f.Sort = sortField
	f.Desc = o.desc
	f.Search = o.search
	f.Limit = o.limit
	f.Offset = o.offset
	return f, nil
}

func newListCommand(deps *commandDeps) *cobra.Command {
	var o listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List entries, newest first; archived entries are hidden by default",
		Args:    exactArgs(0, "list [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.filter(deps.now())
			if err != nil {
				return err
			}
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				list, err := a.store.ListEntries(ctx, f)
				if err != nil {
					return err
				}
				if o.asJSON {
					if list == nil {
						list = []models.Entry{}
					}
					return printJSON(deps.out, list)
				}
				for _, e := range list {
					if _, err := fmt.Fprintln(deps.out, entryLine(e)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&o.starred, "starred", false, "only starred entries")
	fl.BoolVar(&o.archived, "archived", false, "only archived entries")
	fl.BoolVar(&o.all, "all", false, "include archived entries")
	fl.StringVarP(&o.search, "search", "s", "", "substring to look for in title or content")
	fl.StringVar(&o.from, "from", "", "created at or after this time")
	fl.StringVar(&o.to, "to", "", "created before this time")
	fl.BoolVar(&o.onThisDay, "on-this-day", false, "entries written on today's date in earlier years")
	fl.StringVar(&o.sort, "sort", string(entries.SortCreated), "sort by created, updated, title or words")
	fl.BoolVar(&o.desc, "desc", true, "descending order")
	fl.Uint64VarP(&o.limit, "limit", "n", 0, "maximum number of entries")
	fl.Uint64Var(&o.offset, "offset", 0, "skip this many entries")
	fl.BoolVar(&o.asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newEditCommand(deps *commandDeps) *cobra.Command {
	var (
		title, content string
		fromStdin      bool
		markEdited     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry's title or content",
		Args:  exactArgs(1, "edit <id> [--title T] [--content C | --stdin] [--mark-edited]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.EntryPatch
			fl := cmd.Flags()
			if fl.Changed("title") {
				p.Title = &title
			}
			switch {
			case fl.Changed("content") && fromStdin:
				return usageErrorf("--content and --stdin are mutually exclusive")
			case fl.Changed("content"):
				p.Content = &content
			case fromStdin:
				c, err := readContent(deps.in, deps.out)
				if err != nil {
					return mapCommandError(err)
				}
				p.Content = &c
			}
			if markEdited {
				p.IsEdited = models.Ptr(true)
			}
			if p.Empty() {
				return usageErrorf("nothing to change")
			}

			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.store.GetEntry(ctx, args[0]); err != nil {
					return err
				}
				if err := a.store.UpdateEntry(ctx, args[0], p); err != nil {
					return err
				}
				e, err := a.store.GetEntry(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "%s updated, %d words\n", e.ID, e.WordCount)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read new content from stdin")
	cmd.Flags().BoolVar(&markEdited, "mark-edited", false, "flag the entry as edited")
	return cmd
}

// newToggleCommand builds "star" and "archive", which flip a flag and print
// its new state.
func newToggleCommand(deps *commandDeps, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  exactArgs(1, name+" <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				id := args[0]
				if _, err := a.store.GetEntry(ctx, id); err != nil {
					return err
				}

				toggle, state := a.store.ToggleStarred, func(e *models.Entry) bool { return e.IsStarred }
				if name == "archive" {
					toggle, state = a.store.ToggleArchived, func(e *models.Entry) bool { return e.IsArchived }
				}
				if err := toggle(ctx, id); err != nil {
					return err
				}

				e, err := a.store.GetEntry(ctx, id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "%s %s=%t\n", id, name, state(e))
				return err
			})
		},
	}
}

func newRemoveCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry permanently",
		Args:    exactArgs(1, "rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.store.GetEntry(ctx, args[0]); err != nil {
					return err
				}
				if err := a.store.DeleteEntry(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "%s deleted\n", args[0])
				return err
			})
		},
	}
}
