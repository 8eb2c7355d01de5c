package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hay-kot/wingman/pkg/executil"
)

// DesktopSink shows notifications through the host desktop: notify-send on
// Linux and osascript on macOS.
type DesktopSink struct {
	exec     executil.Executor
	goos     string
	lookPath func(string) (string, error)
}

var _ Sink = (*DesktopSink)(nil)

// NewDesktopSink creates a DesktopSink for the running OS.
func NewDesktopSink(e executil.Executor) *DesktopSink {
	return &DesktopSink{exec: e, goos: runtime.GOOS, lookPath: exec.LookPath}
}

func (d *DesktopSink) command() string {
	switch d.goos {
	case "darwin":
		return "osascript"
	case "linux", "freebsd", "openbsd":
		return "notify-send"
	default:
		return ""
	}
}

// RequestPermission reports granted when the platform notifier is installed.
func (d *DesktopSink) RequestPermission(ctx context.Context) (Permission, error) {
	cmd := d.command()
	if cmd == "" {
		return PermissionDenied, fmt.Errorf("%w: unsupported platform %s", ErrUnavailable, d.goos)
	}
	if _, err := d.lookPath(cmd); err != nil {
		return PermissionDenied, fmt.Errorf("%w: %s not found", ErrUnavailable, cmd)
	}
	return PermissionGranted, nil
}

// Show runs the platform notifier.
func (d *DesktopSink) Show(ctx context.Context, n Notification) error {
	var (
		out []byte
		err error
	)

	switch d.command() {
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "default"`,
			escapeAppleScript(n.Message), escapeAppleScript(n.Title))
		out, err = d.exec.Run(ctx, "osascript", "-e", script)
	case "notify-send":
		args := []string{"--app-name=wingman"}
		if n.Level == LevelError {
			args = append(args, "--urgency=critical")
		}
		if n.Kind != "" {
			args = append(args, "--category="+n.Kind)
		}
		args = append(args, n.Title, n.Message)
		out, err = d.exec.Run(ctx, "notify-send", args...)
	default:
		return fmt.Errorf("%w: unsupported platform %s", ErrUnavailable, d.goos)
	}

	if err != nil {
		return fmt.Errorf("desktop notify: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
