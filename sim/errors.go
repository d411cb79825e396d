package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks missing or malformed simulation parameters.
	// It is always reported before the event loop starts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrQueueOverflow means the wait queue grew past its capacity: the
	// offered load does not fit the configured bound.
	ErrQueueOverflow = errors.New("wait queue overflow")

	// ErrCalendarEmpty means no event was scheduled. The arrival event is
	// always rescheduled, so this signals a defect in the engine.
	ErrCalendarEmpty = errors.New("event list empty")
)

// SimulationError is a fatal condition raised while the event loop runs.
// It records the simulation time at which the run was aborted.
type SimulationError struct {
	Time float64 // simulation time of the failure (minutes)
	Err  error   // wraps ErrQueueOverflow or ErrCalendarEmpty
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v at time %.4f", e.Err, e.Time)
}

// Unwrap returns the underlying cause so errors.Is works on the sentinels.
func (e *SimulationError) Unwrap() error {
	return e.Err
}

// FailureTime extracts the simulation time from a SimulationError chain.
func FailureTime(err error) (float64, bool) {
	var se *SimulationError
	if errors.As(err, &se) {
		return se.Time, true
	}
	return 0, false
}
