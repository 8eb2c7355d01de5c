package tui

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wingman/internal/core/notify"
)

func TestFeed_DrainEmpty(t *testing.T) {
	notes, refresh := NewFeed().Drain()
	assert.Nil(t, notes)
	assert.False(t, refresh)
}

func TestFeed_PushDrainKeepsOrder(t *testing.T) {
	f := NewFeed()
	f.Push(notify.Notification{Title: "first"})
	f.Push(notify.Notification{Title: "second"})

	_, ok := f.Wait()().(feedMsg)
	require.True(t, ok)

	notes, refresh := f.Drain()
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
	assert.False(t, refresh)

	notes, _ = f.Drain()
	assert.Nil(t, notes)
}

func TestFeed_RequestRefresh(t *testing.T) {
	f := NewFeed()
	f.RequestRefresh()
	f.RequestRefresh()

	_, ok := f.Wait()().(feedMsg)
	require.True(t, ok)

	_, refresh := f.Drain()
	assert.True(t, refresh)

	_, refresh = f.Drain()
	assert.False(t, refresh)
}

func TestFeed_ConcurrentPush(t *testing.T) {
	f := NewFeed()
	const count = 200

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Push(notify.Notification{Title: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	notes, _ := f.Drain()
	assert.Len(t, notes, count)
}
