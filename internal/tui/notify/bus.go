package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/rs/zerolog/log"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Bus is the in-app notification sink. It persists every notification to a
// Store and dispatches it inline to subscribers such as the dashboard. It
// never needs permission, which makes it the fallback for desktop
// notifications.
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	mu          sync.Mutex
	now         func() time.Time
}

var _ notify.Sink = (*Bus)(nil)

// NewBus creates a notification bus backed by the given store.
// If store is nil, notifications are dispatched to subscribers but not persisted.
func NewBus(store notify.Store) *Bus {
	return &Bus{store: store, now: time.Now}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// RequestPermission always grants.
func (b *Bus) RequestPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}

// Show publishes n. Persistence failures are logged, not returned, so the
// subscribers still see the alert.
func (b *Bus) Show(ctx context.Context, n notify.Notification) error {
	b.publish(ctx, n)
	return nil
}

// Publish dispatches a notification to all subscribers and persists it to the store.
func (b *Bus) Publish(n notify.Notification) {
	b.publish(context.Background(), n)
}

func (b *Bus) publish(ctx context.Context, n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}

	// Persist first so the notification has an ID for subscribers.
	if b.store != nil {
		id, err := b.store.Save(ctx, n)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("title", n.Title).Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.Publish(notify.Notification{Level: notify.LevelError, Message: fmt.Sprintf(format, args...)})
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.Publish(notify.Notification{Level: notify.LevelInfo, Message: fmt.Sprintf(format, args...)})
}

// History returns all persisted notifications (newest first).
// Returns nil if no store is configured.
func (b *Bus) History(ctx context.Context) ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(ctx)
}

// Clear deletes all persisted notifications.
func (b *Bus) Clear(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(ctx)
}
