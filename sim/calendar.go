package sim

import (
	"fmt"
	"math"
	"strings"
)

// notScheduled marks an event type with no pending occurrence.
var notScheduled = math.Inf(1)

// Calendar is the event list: one scheduled time per event type.
// An entry of +Inf means the event is not scheduled (the departure slot
// while the server is idle).
type Calendar struct {
	times [numEventTypes]float64
}

// NewCalendar returns a calendar with nothing scheduled.
func NewCalendar() *Calendar {
	c := &Calendar{}
	c.Reset()
	return c
}

// Reset unschedules every event type.
func (c *Calendar) Reset() {
	for i := range c.times {
		c.times[i] = notScheduled
	}
}

// Schedule sets the next occurrence of t to the given time, replacing any
// previous entry.
func (c *Calendar) Schedule(t EventType, at float64) {
	checkEventType(t)
	if math.IsNaN(at) {
		panic(fmt.Sprintf("Schedule: NaN time for %s", t))
	}
	c.times[t] = at
}

// Cancel unschedules t.
func (c *Calendar) Cancel(t EventType) {
	checkEventType(t)
	c.times[t] = notScheduled
}

// TimeOf returns the scheduled time of t, or +Inf when t is not scheduled.
func (c *Calendar) TimeOf(t EventType) float64 {
	checkEventType(t)
	return c.times[t]
}

// Scheduled reports whether t has a finite scheduled time.
func (c *Calendar) Scheduled(t EventType) bool {
	return !math.IsInf(c.TimeOf(t), 1)
}

// Next returns the event type with the smallest scheduled time.
// Equal times resolve to the lower EventType. If no event is scheduled
// Next returns ErrCalendarEmpty.
func (c *Calendar) Next() (EventType, float64, error) {
	next := EventType(-1)
	minTime := notScheduled
	for _, t := range EventTypes {
		if c.times[t] < minTime {
			minTime = c.times[t]
			next = t
		}
	}
	if next < 0 {
		return next, minTime, ErrCalendarEmpty
	}
	return next, minTime, nil
}

func (c *Calendar) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, t := range EventTypes {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=%g", t, c.times[t])
	}
	sb.WriteString("]")
	return sb.String()
}

func checkEventType(t EventType) {
	if t < 0 || t >= numEventTypes {
		panic(fmt.Sprintf("unknown event type %d", int(t)))
	}
}
