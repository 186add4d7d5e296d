package dashboard

import (
	"fmt"
	"time"
)

// Countdown is the remaining time shown by a daily-counter clock face.
type Countdown struct {
	Target  time.Time `json:"target"`
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Done    bool      `json:"done"`
}

// NewCountdown computes the time left until target. Seconds are not shown,
// and a target in the past yields a finished, all-zero countdown.
func NewCountdown(target, now time.Time) Countdown {
	c := Countdown{Target: target}
	left := target.Sub(now)
	if left <= 0 {
		c.Done = true
		return c
	}

	minutes := int(left / time.Minute)
	c.Days = minutes / (24 * 60)
	c.Hours = (minutes / 60) % 24
	c.Minutes = minutes % 60
	return c
}

// ParseCountdownDate accepts RFC 3339 timestamps and plain dates.
func ParseCountdownDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid countdown date %q", s)
}
