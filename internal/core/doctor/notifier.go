package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/wingman/internal/core/notify"
)

// PermissionRequester is the part of a notify.Sink the notifier check needs.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (notify.Permission, error)
}

// NotifierCheck reports whether desktop notifications can be delivered.
// A nil desktop means desktop notifications are disabled in config.
type NotifierCheck struct {
	desktop PermissionRequester
}

// NewNotifierCheck creates a new notifier check.
func NewNotifierCheck(desktop PermissionRequester) *NotifierCheck {
	return &NotifierCheck{desktop: desktop}
}

func (c *NotifierCheck) Name() string {
	return "Notifications"
}

func (c *NotifierCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.desktop == nil {
		result.add("desktop", StatusPass, "disabled, in-app alerts only")
		return result
	}

	perm, err := c.desktop.RequestPermission(ctx)
	switch {
	case err != nil:
		result.add("desktop", StatusWarn, fmt.Sprintf("%v (in-app alerts will be used)", err))
	case perm != notify.PermissionGranted:
		result.add("desktop", StatusWarn, fmt.Sprintf("permission %s (in-app alerts will be used)", perm))
	default:
		result.add("desktop", StatusPass, "available")
	}
	return result
}
