package eventbus_test

import (
	"testing"

	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/eventbus/testbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/rs/zerolog"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Register with a nop logger; verifies no panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishItemCreated(eventbus.ItemPayload{Item: item.Snapshot{ID: 1, Kind: item.KindTask}})
	tb.PublishEngineRefreshRequested(eventbus.EngineRefreshRequestedPayload{Reason: "test"})
	tb.PublishTaskFailed(eventbus.TaskFailedPayload{TaskID: 1})

	tb.AssertPublished(t, eventbus.EventTaskFailed)
}
