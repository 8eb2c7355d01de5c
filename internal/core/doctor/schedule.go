package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/deadline"
)

// ScheduleCheck summarizes today's items and flags overdue tasks that no
// detection pass has failed yet.
type ScheduleCheck struct {
	store  item.Store
	clock  clock.Clock
	userID string
}

// NewScheduleCheck creates a new schedule check.
func NewScheduleCheck(store item.Store, clk clock.Clock, userID string) *ScheduleCheck {
	return &ScheduleCheck{store: store, clock: clk, userID: userID}
}

func (c *ScheduleCheck) Name() string {
	return "Today"
}

func (c *ScheduleCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	now := c.clock.Now()
	today := clock.DateString(now)

	tasks, err := c.store.ListTodaysTasks(ctx, c.userID, today)
	if err != nil {
		result.add("tasks", StatusFail, err.Error())
		return result
	}
	events, err := c.store.ListTodaysEvents(ctx, c.userID, today)
	if err != nil {
		result.add("events", StatusFail, err.Error())
		return result
	}

	result.add("tasks", StatusPass, fmt.Sprintf("%d scheduled for %s", len(tasks), today))
	result.add("events", StatusPass, fmt.Sprintf("%d scheduled for %s", len(events), today))

	if n := len(deadline.Overdue(tasks, clock.TimeString(now))); n > 0 {
		result.add("overdue", StatusWarn, fmt.Sprintf("%d task(s) past due but not failed; is 'wingman run' running?", n))
	} else {
		result.add("overdue", StatusPass, "none")
	}
	return result
}
