package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	limit      int
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags) *NotificationsCmd {
	return &NotificationsCmd{flags: flags}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notif"},
		Usage:   "Inspect the in-app notification history",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List recorded notifications, newest first",
				UsageText: "wingman notifications list [--limit N] [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "show at most N notifications (0 for all)",
						Value:       20,
						Destination: &cmd.limit,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "clear",
				Usage:     "Delete all recorded notifications",
				UsageText: "wingman notifications clear",
				Action:    cmd.runClear,
			},
		},
	})
	return app
}

func (cmd *NotificationsCmd) runList(ctx context.Context, c *cli.Command) error {
	history, err := cmd.flags.App.Notifications.History(ctx)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	if cmd.limit > 0 && len(history) > cmd.limit {
		history = history[:cmd.limit]
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, n := range history {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	if len(history) == 0 {
		fmt.Fprintf(os.Stderr, "No notifications\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tLEVEL\tTITLE\tMESSAGE")
	for _, n := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.CreatedAt.Local().Format(time.DateTime), n.Level, n.Title, n.Message)
	}
	return w.Flush()
}

func (cmd *NotificationsCmd) runClear(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.App.Notifications.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "notification history cleared")
	return nil
}
