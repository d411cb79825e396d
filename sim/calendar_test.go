package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_New_NothingScheduled(t *testing.T) {
	c := NewCalendar()
	for _, ev := range EventTypes {
		assert.False(t, c.Scheduled(ev), "%s scheduled on a new calendar", ev)
		assert.True(t, math.IsInf(c.TimeOf(ev), 1))
	}
}

func TestCalendar_Next_PicksEarliest(t *testing.T) {
	tests := []struct {
		name      string
		arrival   float64
		departure float64
		want      EventType
		wantTime  float64
	}{
		{"arrival first", 1.0, 2.0, EventArrival, 1.0},
		{"departure first", 3.0, 2.5, EventDeparture, 2.5},
		{"tie resolves to departure", 4.0, 4.0, EventDeparture, 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN both events scheduled
			c := NewCalendar()
			c.Schedule(EventArrival, tt.arrival)
			c.Schedule(EventDeparture, tt.departure)

			// WHEN the next event is selected
			ev, at, err := c.Next()

			// THEN the earliest wins, ties going to the departure
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
			assert.Equal(t, tt.wantTime, at)
		})
	}
}

func TestCalendar_Next_OnlyArrivalScheduled(t *testing.T) {
	// GIVEN an idle server: departure slot cancelled
	c := NewCalendar()
	c.Schedule(EventArrival, 0.7)
	c.Cancel(EventDeparture)

	// WHEN Next is called
	ev, at, err := c.Next()

	// THEN the arrival is selected
	require.NoError(t, err)
	assert.Equal(t, EventArrival, ev)
	assert.Equal(t, 0.7, at)
}

func TestCalendar_Next_Empty_ReturnsErrCalendarEmpty(t *testing.T) {
	c := NewCalendar()
	_, _, err := c.Next()
	assert.True(t, errors.Is(err, ErrCalendarEmpty))
}

func TestCalendar_Cancel_RemovesEvent(t *testing.T) {
	c := NewCalendar()
	c.Schedule(EventDeparture, 5)
	require.True(t, c.Scheduled(EventDeparture))

	c.Cancel(EventDeparture)

	assert.False(t, c.Scheduled(EventDeparture))
}

func TestCalendar_Reset_ClearsAll(t *testing.T) {
	c := NewCalendar()
	c.Schedule(EventArrival, 1)
	c.Schedule(EventDeparture, 2)

	c.Reset()

	_, _, err := c.Next()
	assert.ErrorIs(t, err, ErrCalendarEmpty)
}

func TestCalendar_Schedule_Invalid_Panics(t *testing.T) {
	c := NewCalendar()
	assert.Panics(t, func() { c.Schedule(EventArrival, math.NaN()) })
	assert.Panics(t, func() { c.Schedule(numEventTypes, 1) })
	assert.Panics(t, func() { c.Cancel(EventType(-1)) })
}

func TestCalendar_String(t *testing.T) {
	c := NewCalendar()
	c.Schedule(EventArrival, 1.5)
	assert.Equal(t, "[departure=+Inf arrival=1.5]", c.String())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "departure", EventDeparture.String())
	assert.Equal(t, "arrival", EventArrival.String())
	assert.Equal(t, "event(7)", EventType(7).String())
}
