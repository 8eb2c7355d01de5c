package tui

import (
	"time"

	"github.com/hay-kot/wingman/internal/core/notify"
)

const (
	toastTTL          = 6 * time.Second
	maxToasts         = 3
	toastTickInterval = 250 * time.Millisecond
)

type toast struct {
	n   notify.Notification
	ttl time.Duration
}

// toastStack holds the notifications currently overlaid on the dashboard.
// The newest toast is last.
type toastStack struct {
	items []toast
}

func (s *toastStack) push(n notify.Notification) {
	s.items = append(s.items, toast{n: n, ttl: toastTTL})
	if over := len(s.items) - maxToasts; over > 0 {
		s.items = s.items[over:]
	}
}

// age shortens every toast's lifetime by d and drops the expired ones.
func (s *toastStack) age(d time.Duration) {
	kept := s.items[:0]
	for _, t := range s.items {
		if t.ttl -= d; t.ttl > 0 {
			kept = append(kept, t)
		}
	}
	s.items = kept
}

func (s *toastStack) dismissNewest() {
	if n := len(s.items); n > 0 {
		s.items = s.items[:n-1]
	}
}

func (s *toastStack) empty() bool { return len(s.items) == 0 }
