// Package notify defines user-facing notifications, their persistence, and the
// sinks that surface them (desktop notifications with an in-app fallback).
package notify

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	// ErrUnavailable is returned when a sink's host mechanism is missing.
	ErrUnavailable = errors.New("notification sink unavailable")
	// ErrPermissionDenied is returned when the user denied notifications.
	ErrPermissionDenied = errors.New("notification permission denied")
)

// Permission is the outcome of a permission request.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Sink surfaces a notification to the user. Calls are fire-and-forget from
// the caller's point of view; the returned error is only logged.
type Sink interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, n Notification) error
}

// FallbackSink routes notifications to a primary sink while it is permitted
// and working, and to a least-intrusive fallback sink otherwise.
type FallbackSink struct {
	primary  Sink
	fallback Sink
	log      zerolog.Logger
	granted  atomic.Bool

	// OnFallback, when set, is called each time the fallback sink is used
	// because the primary failed or was not permitted.
	OnFallback func(err error)
}

var _ Sink = (*FallbackSink)(nil)

// NewFallbackSink creates a FallbackSink. A nil primary means only the
// fallback is used.
func NewFallbackSink(primary, fallback Sink, log zerolog.Logger) *FallbackSink {
	return &FallbackSink{primary: primary, fallback: fallback, log: log}
}

// RequestPermission asks the primary sink for permission. Denial or failure is
// logged and reported as granted, since the fallback needs no permission.
func (f *FallbackSink) RequestPermission(ctx context.Context) (Permission, error) {
	if f.primary == nil {
		return PermissionGranted, nil
	}

	perm, err := f.primary.RequestPermission(ctx)
	switch {
	case err != nil:
		f.log.Warn().Err(err).Msg("desktop notifications unavailable, using in-app alerts")
	case perm != PermissionGranted:
		f.log.Warn().Str("permission", string(perm)).Msg("desktop notifications denied, using in-app alerts")
	default:
		f.granted.Store(true)
		f.log.Debug().Msg("desktop notifications granted")
	}

	return PermissionGranted, nil
}

// Show delivers n through the primary sink when permitted, falling back on
// any error.
func (f *FallbackSink) Show(ctx context.Context, n Notification) error {
	cause := ErrUnavailable
	if f.primary != nil && !f.granted.Load() {
		cause = ErrPermissionDenied
	}
	if f.primary != nil && f.granted.Load() {
		err := f.primary.Show(ctx, n)
		if err == nil {
			return nil
		}
		f.log.Warn().Err(err).Str("title", n.Title).Msg("desktop notification failed, using in-app alert")
		cause = err
	}

	if f.OnFallback != nil {
		f.OnFallback(cause)
	}
	return f.fallback.Show(ctx, n)
}
