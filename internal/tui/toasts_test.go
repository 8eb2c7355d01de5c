package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/wingman/internal/core/notify"
)

func TestToastStack_PushEvictsOldest(t *testing.T) {
	var s toastStack
	for i := range maxToasts + 2 {
		s.push(notify.Notification{Title: fmt.Sprint(i)})
	}

	assert.Len(t, s.items, maxToasts)
	assert.Equal(t, "2", s.items[0].n.Title)
}

func TestToastStack_Age(t *testing.T) {
	var s toastStack
	s.push(notify.Notification{Title: "old"})
	s.push(notify.Notification{Title: "new"})
	s.items[0].ttl = 100 * time.Millisecond

	s.age(200 * time.Millisecond)

	assert.Len(t, s.items, 1)
	assert.Equal(t, "new", s.items[0].n.Title)
	assert.Equal(t, toastTTL-200*time.Millisecond, s.items[0].ttl)
}

func TestToastStack_DismissNewest(t *testing.T) {
	var s toastStack
	s.dismissNewest()
	assert.True(t, s.empty())

	s.push(notify.Notification{Title: "a"})
	s.push(notify.Notification{Title: "b"})
	s.dismissNewest()

	assert.Len(t, s.items, 1)
	assert.Equal(t, "a", s.items[0].n.Title)
}
