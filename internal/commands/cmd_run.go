package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/metrics"
	"github.com/hay-kot/wingman/internal/tui"
)

type RunCmd struct {
	flags *Flags

	// flags
	tui         bool
	metricsAddr string
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run the reminder scheduler and deadline detector",
		UsageText: "wingman run [--tui] [--metrics-addr host:port]",
		Description: `Starts the reminder scheduler and the deadline failure detector for the
configured user and keeps them running until interrupted.

The config file is watched and reminder settings are applied without a restart.
Use --tui for an interactive dashboard of today's items and alerts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "tui",
				Usage:       "show the interactive dashboard",
				Destination: &cmd.tui,
			},
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "serve Prometheus metrics and pprof on this address (overrides metrics.addr)",
				Sources:     cli.EnvVars("WINGMAN_METRICS_ADDR"),
				Destination: &cmd.metricsAddr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	app := cmd.flags.App

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := config.NewWatcher(cmd.flags.ConfigPath, cmd.flags.DataDir, logging.Component("config"), app.ApplyConfig)
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	addr := cmd.metricsAddr
	if addr == "" {
		addr = app.Config.Metrics.Addr
	}
	if addr != "" {
		srv := metrics.NewServer(addr)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()
	}

	app.Start(ctx)
	defer app.Stop()

	if !cmd.tui {
		_, _ = fmt.Fprintf(c.Root().Writer, "wingman running for %s (Ctrl+C to stop)\n", app.Config.UserID)
		<-ctx.Done()
		return nil
	}

	dash := tui.NewDashboard(tui.Deps{
		Scheduler:     app.Scheduler,
		Detector:      app.Detector,
		Notifications: app.Notifications,
		Bus:           app.Bus,
		Clock:         app.Clock,
	})
	defer dash.Close()

	p := tea.NewProgram(dash, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
