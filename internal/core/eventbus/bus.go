package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

type subscriber struct {
	id uint64
	fn func(any)
}

// EventBus is an asynchronous, buffered, in-process pub/sub bus. Publish
// never blocks: when the buffer is full the event is dropped and OnDrop
// hooks fire. Subscribers run sequentially on the dispatch goroutine started
// by Start, in registration order.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu     sync.RWMutex
	nextID uint64
	subs   map[Event][]subscriber
}

// New creates a bus with the given buffer size.
func New(size int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, size),
		subs: make(map[Event][]subscriber),
	}
}

// Start dispatches events until ctx is cancelled. Events still buffered at
// cancellation are discarded.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]subscriber, len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, s := range subs {
		bus.call(env, s.fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

// subscribe registers fn for event and returns a func that removes it.
// The returned func is safe to call more than once.
func (bus *EventBus) subscribe(event Event, fn func(any)) func() {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], subscriber{id: id, fn: fn})
	bus.mu.Unlock()

	bus.runOnSubscribe(event)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		subs := bus.subs[event]
		for i, s := range subs {
			if s.id == id {
				bus.subs[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func subscribeTyped[T any](bus *EventBus, event Event, fn func(T)) func() {
	return bus.subscribe(event, func(p any) { fn(p.(T)) })
}

// SubscriberCount returns the number of subscribers registered for event.
func (bus *EventBus) SubscriberCount(event Event) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[event])
}

func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) {
	bus.send(EventConfigReloaded, p)
}

func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) func() {
	return subscribeTyped(bus, EventConfigReloaded, fn)
}

func (bus *EventBus) PublishDashboardRefresh(p RefreshPayload) {
	bus.send(EventDashboardRefresh, p)
}

func (bus *EventBus) SubscribeDashboardRefresh(fn func(RefreshPayload)) func() {
	return subscribeTyped(bus, EventDashboardRefresh, fn)
}

func (bus *EventBus) PublishEngineRefreshRequested(p EngineRefreshRequestedPayload) {
	bus.send(EventEngineRefreshRequested, p)
}

func (bus *EventBus) SubscribeEngineRefreshRequested(fn func(EngineRefreshRequestedPayload)) func() {
	return subscribeTyped(bus, EventEngineRefreshRequested, fn)
}

func (bus *EventBus) PublishItemCompleted(p ItemPayload) {
	bus.send(EventItemCompleted, p)
}

func (bus *EventBus) SubscribeItemCompleted(fn func(ItemPayload)) func() {
	return subscribeTyped(bus, EventItemCompleted, fn)
}

func (bus *EventBus) PublishItemCreated(p ItemPayload) {
	bus.send(EventItemCreated, p)
}

func (bus *EventBus) SubscribeItemCreated(fn func(ItemPayload)) func() {
	return subscribeTyped(bus, EventItemCreated, fn)
}

func (bus *EventBus) PublishItemDeleted(p ItemPayload) {
	bus.send(EventItemDeleted, p)
}

func (bus *EventBus) SubscribeItemDeleted(fn func(ItemPayload)) func() {
	return subscribeTyped(bus, EventItemDeleted, fn)
}

func (bus *EventBus) PublishItemUpdated(p ItemUpdatedPayload) {
	bus.send(EventItemUpdated, p)
}

func (bus *EventBus) SubscribeItemUpdated(fn func(ItemUpdatedPayload)) func() {
	return subscribeTyped(bus, EventItemUpdated, fn)
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) func() {
	return subscribeTyped(bus, EventNotificationPublished, fn)
}

func (bus *EventBus) PublishNotificationsRefresh(p RefreshPayload) {
	bus.send(EventNotificationsRefresh, p)
}

func (bus *EventBus) SubscribeNotificationsRefresh(fn func(RefreshPayload)) func() {
	return subscribeTyped(bus, EventNotificationsRefresh, fn)
}

func (bus *EventBus) PublishTaskFailed(p TaskFailedPayload) {
	bus.send(EventTaskFailed, p)
}

func (bus *EventBus) SubscribeTaskFailed(fn func(TaskFailedPayload)) func() {
	return subscribeTyped(bus, EventTaskFailed, fn)
}

func (bus *EventBus) PublishTasksFailedUpdate(p TasksFailedUpdatePayload) {
	bus.send(EventTasksFailedUpdate, p)
}

func (bus *EventBus) SubscribeTasksFailedUpdate(fn func(TasksFailedUpdatePayload)) func() {
	return subscribeTyped(bus, EventTasksFailedUpdate, fn)
}
