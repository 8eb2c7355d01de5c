package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/pkg/iojson"
)

type EventCmd struct {
	flags *Flags

	// flags
	date       string
	time       string
	typ        string
	jsonOutput bool
}

// NewEventCmd creates a new event command
func NewEventCmd(flags *Flags) *EventCmd {
	return &EventCmd{flags: flags}
}

// Register adds the event command to the application
func (cmd *EventCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "event",
		Usage: "Manage calendar events",
		Description: `Create, list, move and delete calendar events.

Timed events receive reminders 30 and 5 minutes before they start and a
final alert when they begin.`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
			cmd.moveCmd(),
			cmd.deleteCmd(),
		},
	})
	return app
}

func (cmd *EventCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an event",
		UsageText: `wingman event add [--date YYYY-MM-DD] [--time HH:MM] [--type meeting] <title>`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "event date (defaults to today)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       `start time, e.g. "14:00", "2:00 PM" or "All day"`,
				Destination: &cmd.time,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "free-form event type (meeting, appointment, ...)",
				Destination: &cmd.typ,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ev, err := cmd.flags.App.Items.AddEvent(ctx, cmd.flags.Config.UserID, titleArg(c, 0), cmd.date, cmd.time, cmd.typ)
			if err != nil {
				return fmt.Errorf("add event: %w", err)
			}
			return cmd.print(c, ev)
		},
	}
}

func (cmd *EventCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List events for a day",
		UsageText: "wingman event list [--date YYYY-MM-DD] [--json]",
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

func (cmd *EventCmd) runList(ctx context.Context, c *cli.Command) error {
	events, err := cmd.flags.App.Items.ListEvents(ctx, cmd.flags.Config.UserID, cmd.date)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, ev := range events {
			if err := iojson.WriteLine(out, ev); err != nil {
				return fmt.Errorf("encode event: %w", err)
			}
		}
		return nil
	}

	if len(events) == 0 {
		fmt.Fprintf(os.Stderr, "No events found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTIME\tTYPE\tTITLE")
	for _, ev := range events {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ev.ID, displayTime(ev.Time), displayTime(ev.Type), ev.Title)
	}
	return w.Flush()
}

func (cmd *EventCmd) moveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Change an event's start time",
		UsageText: "wingman event move --time HH:MM <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       "new start time",
				Required:    true,
				Destination: &cmd.time,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			ev, err := cmd.flags.App.Items.MoveEvent(ctx, id, cmd.time)
			if err != nil {
				return fmt.Errorf("move event: %w", err)
			}
			return cmd.print(c, ev)
		},
	}
}

func (cmd *EventCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete an event",
		UsageText: "wingman event delete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			if err := cmd.flags.App.Items.DeleteEvent(ctx, id); err != nil {
				return fmt.Errorf("delete event: %w", err)
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "deleted event %d\n", id)
			return nil
		},
	}
}

func (cmd *EventCmd) print(c *cli.Command, ev item.Event) error {
	_, err := fmt.Fprintf(c.Root().Writer, "%d\t%s\t%s\t%s\n", ev.ID, ev.Date, displayTime(ev.Time), ev.Title)
	return err
}
