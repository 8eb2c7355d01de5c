package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/pkg/iojson"
)

type DetectCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewDetectCmd creates a new detect command
func NewDetectCmd(flags *Flags) *DetectCmd {
	return &DetectCmd{flags: flags}
}

// Register adds the detect command to the application
func (cmd *DetectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "detect",
		Usage:     "Run one deadline detection pass now",
		UsageText: "wingman detect [--json]",
		Description: `Marks today's incomplete tasks whose time has passed as failed and prints
a summary of the pass. Running it twice in a row fails nothing the second time.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the pass result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DetectCmd) run(ctx context.Context, c *cli.Command) error {
	res, err := cmd.flags.App.Detector.Check(ctx)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, res)
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintf(out, "checked %d task(s) for %s, failed %d\n", res.TotalChecked, res.AffectedDate, res.TotalFailed)
	for _, id := range res.FailedTaskIDs {
		_, _ = fmt.Fprintf(out, "  task %d\n", id)
	}
	return nil
}
