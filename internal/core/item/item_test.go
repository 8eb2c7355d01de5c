package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_HasTime(t *testing.T) {
	tests := []struct {
		name string
		time string
		want bool
	}{
		{"concrete", "09:30", true},
		{"empty", "", false},
		{"all day", AllDay, false},
		{"malformed", "9:30", false},
		{"out of range", "25:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{ScheduledTime: tt.time}
			assert.Equal(t, tt.want, s.HasTime())
		})
	}
}

func TestTask_Snapshot(t *testing.T) {
	task := Task{ID: 7, UserID: "u1", Title: "Write report", Date: "2026-10-15", Time: "09:25", Failed: true}

	s := task.Snapshot()
	assert.Equal(t, KindTask, s.Kind)
	assert.Equal(t, "task-7", s.Key())
	assert.Equal(t, "u1", s.OwnerID)
	assert.True(t, s.Resolved)
}

func TestEvent_Snapshot(t *testing.T) {
	ev := Event{ID: 3, UserID: "u1", Title: "Standup", Date: "2026-10-15", Time: "10:00"}

	s := ev.Snapshot()
	assert.Equal(t, KindEvent, s.Kind)
	assert.Equal(t, "event-3", s.Key())
	assert.False(t, s.Resolved)
}

func TestSettings_Toggles(t *testing.T) {
	s := Settings{Task30MinReminder: true, Event5MinReminder: true}

	assert.True(t, s.ThirtyMin(KindTask))
	assert.False(t, s.FiveMin(KindTask))
	assert.False(t, s.ThirtyMin(KindEvent))
	assert.True(t, s.FiveMin(KindEvent))
}
