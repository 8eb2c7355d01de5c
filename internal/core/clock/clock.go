// Package clock provides the wall-clock accessors the reminder engines use for
// all of their timing math. Dates are "YYYY-MM-DD" and times of day are
// zero-padded 24h "HH:MM" strings, so both compare correctly as strings.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidTime is returned for time-of-day strings that are not "HH:MM".
var ErrInvalidTime = errors.New("invalid time of day")

// Clock reports the current local time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by time.Now.
func Real() Clock { return realClock{} }

// Manual is a Clock that only moves when told to. Safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock set to t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// DateString formats t as "YYYY-MM-DD" in t's location.
func DateString(t time.Time) string { return t.Format(DateLayout) }

// TimeString formats t as "HH:MM" in t's location.
func TimeString(t time.Time) string { return t.Format(TimeLayout) }

// TodayDateString returns the current date of c.
func TodayDateString(c Clock) string { return DateString(c.Now()) }

// NowTimeString returns the current time of day of c.
func NowTimeString(c Clock) string { return TimeString(c.Now()) }

// MinuteOfDay returns the number of whole minutes since midnight.
func MinuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

var hhmm = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseMinutes converts a strict "HH:MM" string to minutes since midnight.
func ParseMinutes(s string) (int, error) {
	m := hhmm.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if h > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}

	return h*60 + mins, nil
}

// ValidTime reports whether s is a strict "HH:MM" time of day.
func ValidTime(s string) bool {
	_, err := ParseMinutes(s)
	return err == nil
}

var looseTime = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([aApP][mM])?$`)

// NormalizeTime accepts user input such as "9:05", "09:05" or "9:05 pm" and
// returns the canonical "HH:MM" form.
func NormalizeTime(s string) (string, error) {
	m := looseTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	h, _ := strconv.Atoi(m[1])
	switch strings.ToLower(m[3]) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}

	out := fmt.Sprintf("%02d:%s", h, m[2])
	if !ValidTime(out) {
		return "", fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return out, nil
}

// DelayToNextMinute returns how long to wait from t until the next :00 second
// boundary. At exactly :00.000 the full minute is returned.
func DelayToNextMinute(t time.Time) time.Duration {
	secs := time.Duration(60-t.Second()) * time.Second
	return secs - time.Duration(t.Nanosecond())
}
