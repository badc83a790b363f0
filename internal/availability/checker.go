// Package availability answers which appointment slots are open on a date.
package availability

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultSlots is the clinic's daily slot template.
var DefaultSlots = []string{"09:00", "10:30", "14:00", "15:30", "16:45"}

// Checker reports the open HH:MM slots for a therapy on a date. An empty
// slice means nothing is open; it is not an error.
type Checker interface {
	Check(ctx context.Context, therapyID, date string) ([]string, error)
}

// BookedSlots reports the times already held by confirmed appointments.
type BookedSlots interface {
	TakenSlots(ctx context.Context, date string) ([]string, error)
}

// Result is the wire shape of an availability answer.
type Result struct {
	Available bool     `json:"available"`
	Slots     []string `json:"slots"`
}

// NewResult wraps slots, normalizing nil to empty.
func NewResult(slots []string) Result {
	if slots == nil {
		slots = []string{}
	}
	return Result{Available: len(slots) > 0, Slots: slots}
}

// ScheduleOption configures a ScheduleChecker.
type ScheduleOption func(*ScheduleChecker)

// WithClosedWeekdays marks days on which the clinic has no slots.
func WithClosedWeekdays(days ...time.Weekday) ScheduleOption {
	return func(c *ScheduleChecker) {
		for _, d := range days {
			c.closed[d] = true
		}
	}
}

// WithBookedSlots removes slots already held by confirmed appointments.
func WithBookedSlots(b BookedSlots) ScheduleOption {
	return func(c *ScheduleChecker) { c.booked = b }
}

// ScheduleChecker derives availability from a fixed daily template. The
// clinic has a single practitioner, so a booked time is taken for every
// therapy.
type ScheduleChecker struct {
	template []string
	closed   map[time.Weekday]bool
	booked   BookedSlots
}

// NewScheduleChecker builds a checker over template, falling back to
// DefaultSlots when it is empty.
func NewScheduleChecker(template []string, opts ...ScheduleOption) *ScheduleChecker {
	if len(template) == 0 {
		template = DefaultSlots
	}
	c := &ScheduleChecker{
		template: slices.Clone(template),
		closed:   make(map[time.Weekday]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the template minus taken slots. Dates that do not parse are
// still answered from the template.
func (c *ScheduleChecker) Check(ctx context.Context, therapyID, date string) ([]string, error) {
	if day, err := time.Parse("2006-01-02", date); err == nil && c.closed[day.Weekday()] {
		return []string{}, nil
	}

	var taken []string
	if c.booked != nil {
		var err error
		taken, err = c.booked.TakenSlots(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("availability: taken slots: %w", err)
		}
	}

	out := make([]string, 0, len(c.template))
	for _, slot := range c.template {
		if !slices.Contains(taken, slot) {
			out = append(out, slot)
		}
	}
	return out, nil
}

// ParseWeekdays converts names such as "sun" or "Sunday" to weekdays.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if n == full || n == full[:3] {
				out = append(out, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("availability: unknown weekday %q", name)
		}
	}
	return out, nil
}
