package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"planote/internal/bootstrap"
	"planote/internal/platform/config"
)

const dateLayout = "2006-01-02"

type rootOptions struct {
	configPath string
	dataDir    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "planote",
		Short:         "Day, month and year planner with notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultConfigPath+")")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the database and log")

	root.AddCommand(newTUICmd(opts))
	for _, scale := range []string{"day", "month", "year"} {
		root.AddCommand(newScaleCmd(opts, scale))
	}
	root.AddCommand(newWeekCmd(opts))
	root.AddCommand(newNoteCmd(opts))
	root.AddCommand(newPurgeCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.dataDir) != "" {
		if cfg, err = cfg.WithDataDir(opts.dataDir); err != nil {
			return nil, err
		}
	}
	return bootstrap.New(cfg, nil)
}

// withApp opens the app for one command and closes it afterwards.
func withApp(opts *rootOptions, fn func(context.Context, *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the planote terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, bootstrap.RunTUI)
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if addr != "" {
				app.Server = bootstrap.NewServer(addr, app.Server.Handler(), app.Log)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving on %s (ctrl+c to stop)\n", app.Server.Addr())
			return bootstrap.RunServer(ctx, app)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newScaleCmd(opts *rootOptions, scale string) *cobra.Command {
	group := &cobra.Command{Use: scale, Short: "Manage " + scale + " entries and their tasks"}

	var date string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a " + scale + " entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				when, err := parseDateOr(date, app.PlanCLI.Today())
				if err != nil {
					return err
				}
				out, err := app.PlanCLI.AddEntry(ctx, scale, strings.Join(args, " "), when)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %d %s\n", scale, out.ID, formatDate(scale, out.Date))
				return nil
			})
		},
	}
	add.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")

	var from string
	var before bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + scale + " entries from a date on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				cutoff, err := parseDateOr(from, app.PlanCLI.Today())
				if err != nil {
					return err
				}
				entries, err := app.PlanCLI.ListEntries(ctx, scale, cutoff, before)
				if err != nil {
					return err
				}
				printEntries(cmd.OutOrStdout(), scale, entries)
				return nil
			})
		},
	}
	list.Flags().StringVar(&from, "from", "", "cutoff date as YYYY-MM-DD (default today)")
	list.Flags().BoolVar(&before, "before", false, "list entries before the cutoff instead")

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a " + scale + " entry; an empty title deletes it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.RenameEntry(ctx, scale, id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s %d\n", scale, out.ID)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a " + scale + " entry and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PlanCLI.RemoveEntry(ctx, scale, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s %d\n", scale, id)
				return nil
			})
		},
	}

	group.AddCommand(add, list, rename, rm, newTaskCmd(opts, scale))
	return group
}

func newTaskCmd(opts *rootOptions, scale string) *cobra.Command {
	group := &cobra.Command{Use: "task", Short: "Manage the tasks of a " + scale + " entry"}

	var description string
	add := &cobra.Command{
		Use:   "add <entry-id> <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.AddTask(ctx, scale, owner, strings.Join(args[1:], " "), description)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added task %d\n", out.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&description, "desc", "", "task description")

	list := &cobra.Command{
		Use:   "list <entry-id>",
		Short: "List tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				tasks, err := app.PlanCLI.ListTasks(ctx, scale, owner)
				if err != nil {
					return err
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}

	var undo bool
	done := &cobra.Command{
		Use:   "done <entry-id> <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, task, err := parseIDPair(args)
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.SetTaskDone(ctx, scale, owner, task, !undo)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task %d %s\n", out.ID, doneLabel(out.Done))
				return nil
			})
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the task open again")

	rm := &cobra.Command{
		Use:   "rm <entry-id> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, task, err := parseIDPair(args)
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PlanCLI.RemoveTask(ctx, scale, owner, task); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed task %d\n", task)
				return nil
			})
		},
	}

	group.AddCommand(add, list, done, rm)
	return group
}

func newWeekCmd(opts *rootOptions) *cobra.Command {
	group := &cobra.Command{Use: "week", Short: "Manage weekly plans"}

	var active bool
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a weekly plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.AddWeek(ctx, strings.Join(args, " "), active)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added week %d\n", out.ID)
				return nil
			})
		},
	}
	add.Flags().BoolVar(&active, "active", false, "make this the active week")

	list := &cobra.Command{
		Use:   "list",
		Short: "List weekly plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				weeks, err := app.PlanCLI.ListWeeks(ctx)
				if err != nil {
					return err
				}
				printWeeks(cmd.OutOrStdout(), weeks)
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the active week and its days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				week, err := app.PlanCLI.ActiveWeek(ctx)
				if err != nil {
					return err
				}
				printActiveWeek(cmd.OutOrStdout(), week)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <week-id>",
		Short: "Delete a weekly plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PlanCLI.RemoveWeek(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed week %d\n", id)
				return nil
			})
		},
	}

	group.AddCommand(add, list, show, rm, newWeekDayCmd(opts))
	return group
}

func newWeekDayCmd(opts *rootOptions) *cobra.Command {
	group := &cobra.Command{Use: "day", Short: "Manage the days of a weekly plan"}

	var description string
	add := &cobra.Command{
		Use:   "add <week-id> <title>",
		Short: "Add a day to a week",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.AddWeekDay(ctx, week, strings.Join(args[1:], " "), description)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added day %d\n", out.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&description, "desc", "", "day description")

	var start, end string
	task := &cobra.Command{
		Use:   "task <day-id> <title>",
		Short: "Add a timed task to a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseID(args[0])
			if err != nil {
				return err
			}
			from, err := parseClock(start)
			if err != nil {
				return err
			}
			to, err := parseClock(end)
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.AddWeekDayTask(ctx, day, strings.Join(args[1:], " "), from, to)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added task %d\n", out.ID)
				return nil
			})
		},
	}
	task.Flags().StringVar(&start, "start", "", "start time as HH:MM")
	task.Flags().StringVar(&end, "end", "", "end time as HH:MM")

	tasks := &cobra.Command{
		Use:   "tasks <day-id>",
		Short: "List the tasks of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PlanCLI.ListWeekDayTasks(ctx, day)
				if err != nil {
					return err
				}
				printWeekDayTasks(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	group.AddCommand(add, task, tasks)
	return group
}

func newNoteCmd(opts *rootOptions) *cobra.Command {
	group := &cobra.Command{Use: "note", Short: "Manage markdown notes"}

	var body string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.NoteCLI.Add(ctx, strings.Join(args, " "), body)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added note %s\n", shortID(out.ID))
				return nil
			})
		},
	}
	add.Flags().StringVar(&body, "body", "", "markdown body")

	var title, editBody string
	edit := &cobra.Command{
		Use:   "edit <id-prefix>",
		Short: "Change a note's title or body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.NoteCLI.Edit(ctx, args[0], title, editBody)
				if err != nil {
					return err
				}
				if out.Deleted {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note %s was blank and has been removed\n", shortID(out.ID))
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved note %s\n", shortID(out.ID))
				return nil
			})
		},
	}
	edit.Flags().StringVar(&title, "title", "", "new title (unchanged when empty)")
	edit.Flags().StringVar(&editBody, "body", "", "new body (unchanged when empty)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				notes, err := app.NoteCLI.List(ctx)
				if err != nil {
					return err
				}
				printNotes(cmd.OutOrStdout(), notes, time.Now())
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id-prefix>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.NoteCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				printNote(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id-prefix>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.NoteCLI.Remove(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed note %s\n", shortID(out.ID))
				return nil
			})
		},
	}

	export := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every note as <slug>.md with frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.NoteCLI.Export(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", len(out.Files), out.Dir)
				return nil
			})
		},
	}

	group.AddCommand(add, edit, list, show, rm, export)
	return group
}

func newPurgeCmd(opts *rootOptions) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every entry dated before a cutoff, with its tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				cutoff, err := parseDateOr(before, app.PlanCLI.Today())
				if err != nil {
					return err
				}
				out, err := app.PlanCLI.PurgeBefore(ctx, cutoff)
				if err != nil {
					return err
				}
				printPurge(cmd.OutOrStdout(), cutoff, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "cutoff date as YYYY-MM-DD (default today)")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show entry and task counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				cutoff, err := parseDateOr(from, app.PlanCLI.Today())
				if err != nil {
					return err
				}
				out, err := app.PlanCLI.Stats(ctx, cutoff)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), out, time.Now())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "cutoff date as YYYY-MM-DD (default today)")
	return cmd
}

func parseDateOr(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, fallback.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return t, nil
}

func parseClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", value)
	}
	return t, nil
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func parseIDPair(args []string) (int64, int64, error) {
	first, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	second, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
