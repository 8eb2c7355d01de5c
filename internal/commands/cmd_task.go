package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/wingman"
	"github.com/hay-kot/wingman/pkg/iojson"
)

type TaskCmd struct {
	flags *Flags

	// flags
	date       string
	time       string
	jsonOutput bool
	importer   iojson.FileReader[[]wingman.TaskDraft]
}

// NewTaskCmd creates a new task command
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the task command to the application
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage tasks",
		Description: `Create, list and resolve tasks.

Tasks with a time of day receive reminders 30 and 5 minutes before they are
due and are marked failed once the time passes without completion.`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
			cmd.completeCmd(),
			cmd.renameCmd(),
			cmd.retryCmd(),
			cmd.deleteCmd(),
			cmd.importCmd(),
		},
	})
	return app
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: `wingman task add [--date YYYY-MM-DD] [--time HH:MM] <title>`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "due date (defaults to today)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       `due time, e.g. "09:30", "9:30 PM" or "All day"`,
				Destination: &cmd.time,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	task, err := cmd.flags.App.Items.AddTask(ctx, cmd.flags.Config.UserID, titleArg(c, 0), cmd.date, cmd.time)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	return cmd.print(c, task)
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks for a day",
		UsageText: "wingman task list [--date YYYY-MM-DD] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "day to list (defaults to today)",
				Destination: &cmd.date,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.flags.App.Items.ListTasks(ctx, cmd.flags.Config.UserID, cmd.date)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTIME\tSTATE\tTITLE")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, displayTime(t.Time), taskState(t), t.Title)
	}
	return w.Flush()
}

func (cmd *TaskCmd) completeCmd() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Aliases:   []string{"done"},
		Usage:     "Mark a task completed",
		UsageText: "wingman task complete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			task, err := cmd.flags.App.Items.CompleteTask(ctx, id)
			if err != nil {
				return fmt.Errorf("complete task: %w", err)
			}
			return cmd.print(c, task)
		},
	}
}

func (cmd *TaskCmd) renameCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change a task's title and optionally its time",
		UsageText: "wingman task edit [--time HH:MM] <id> <title>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       "new due time (keeps the current time when empty)",
				Destination: &cmd.time,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			task, err := cmd.flags.App.Items.RenameTask(ctx, id, titleArg(c, 1), cmd.time)
			if err != nil {
				return fmt.Errorf("edit task: %w", err)
			}
			return cmd.print(c, task)
		},
	}
}

func (cmd *TaskCmd) retryCmd() *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "Reschedule a failed task for later today",
		UsageText: "wingman task retry --time HH:MM <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       "new due time",
				Required:    true,
				Destination: &cmd.time,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			task, err := cmd.flags.App.Items.RetryTask(ctx, id, cmd.time)
			if err != nil {
				return fmt.Errorf("retry task: %w", err)
			}
			return cmd.print(c, task)
		},
	}
}

func (cmd *TaskCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		UsageText: "wingman task delete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			if err := cmd.flags.App.Items.DeleteTask(ctx, id); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "deleted task %d\n", id)
			return nil
		},
	}
}

func (cmd *TaskCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create tasks from a JSON array",
		UsageText: "wingman task import [-f tasks.json]",
		Description: `Reads a JSON array of tasks from a file or stdin.

Example:
  [{"title":"Write report","time":"09:25"},{"title":"Gym","date":"2026-10-16","time":"18:00"}]`,
		Flags:  []cli.Flag{cmd.importer.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *TaskCmd) runImport(ctx context.Context, c *cli.Command) error {
	drafts, err := cmd.importer.Read()
	if err != nil {
		return err
	}

	created, err := cmd.flags.App.Items.ImportTasks(ctx, cmd.flags.Config.UserID, drafts)
	if err != nil {
		return fmt.Errorf("import tasks: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "imported %d task(s)\n", len(created))
	return nil
}

func (cmd *TaskCmd) print(c *cli.Command, t item.Task) error {
	_, err := fmt.Fprintf(c.Root().Writer, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Date, displayTime(t.Time), taskState(t), t.Title)
	return err
}

func taskState(t item.Task) string {
	switch {
	case t.Completed:
		return "done"
	case t.Failed:
		return "failed"
	default:
		return "open"
	}
}

func displayTime(tm string) string {
	if tm == "" {
		return "-"
	}
	return tm
}
