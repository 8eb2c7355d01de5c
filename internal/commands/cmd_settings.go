package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(flags *Flags) *SettingsCmd {
	return &SettingsCmd{flags: flags}
}

var errNoSettings = errors.New("no settings given; see 'wingman settings set --help'")

// settingToggles maps flag names to the reminder toggle they control.
var settingToggles = []struct {
	flag  string
	usage string
	field func(*item.Settings) *bool
}{
	{"task-30min", "30-minute task reminder", func(s *item.Settings) *bool { return &s.Task30MinReminder }},
	{"task-5min", "5-minute task reminder", func(s *item.Settings) *bool { return &s.Task5MinReminder }},
	{"event-30min", "30-minute event reminder", func(s *item.Settings) *bool { return &s.Event30MinReminder }},
	{"event-5min", "5-minute event reminder", func(s *item.Settings) *bool { return &s.Event5MinReminder }},
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	setFlags := make([]cli.Flag, 0, len(settingToggles))
	for _, t := range settingToggles {
		setFlags = append(setFlags, &cli.BoolFlag{Name: t.flag, Usage: "enable the " + t.usage})
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "settings",
		Usage: "Show or change your reminder settings",
		Description: `Stored settings take precedence over the reminder toggles in the config
file. Until settings are saved, the config file toggles apply.`,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the effective reminder settings",
				UsageText: "wingman settings show [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "set",
				Usage:     "Change reminder toggles",
				UsageText: "wingman settings set [--task-30min=false] [--event-5min] ...",
				Flags:     setFlags,
				Action:    cmd.runSet,
			},
		},
	})
	return app
}

func (cmd *SettingsCmd) current(ctx context.Context) (item.Settings, error) {
	cfg := cmd.flags.Config
	st, err := cmd.flags.App.Items.Settings(ctx, cfg.UserID, cfg.Reminders.Settings())
	if err != nil {
		return item.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

func (cmd *SettingsCmd) runShow(ctx context.Context, c *cli.Command) error {
	st, err := cmd.current(ctx)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, st)
	}
	return cmd.printSettings(c, st)
}

func (cmd *SettingsCmd) runSet(ctx context.Context, c *cli.Command) error {
	st, err := cmd.current(ctx)
	if err != nil {
		return err
	}

	changed := false
	for _, t := range settingToggles {
		if c.IsSet(t.flag) {
			*t.field(&st) = c.Bool(t.flag)
			changed = true
		}
	}
	if !changed {
		return errNoSettings
	}

	if err := cmd.flags.App.Items.SaveSettings(ctx, cmd.flags.Config.UserID, st); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return cmd.printSettings(c, st)
}

func (cmd *SettingsCmd) printSettings(c *cli.Command, st item.Settings) error {
	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	for _, t := range settingToggles {
		state := "off"
		if *t.field(&st) {
			state = "on"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.flag, state)
	}
	return w.Flush()
}
