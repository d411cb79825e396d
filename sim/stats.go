package sim

import "fmt"

// RunningTotals accumulates the counters and time-weighted areas of a run.
type RunningTotals struct {
	NumCustomersDelayed int     // customers whose delay in queue is known
	TotalOfDelays       float64 // sum of those delays (minutes)
	AreaNumInQueue      float64 // integral of queue length over time
	AreaServerStatus    float64 // integral of the busy indicator over time
	TimeLastEvent       float64 // time of the last area update
}

// Update integrates the state that held since the previous update up to now.
// numInQueue and busy must describe the state *before* the event at now is
// applied.
func (rt *RunningTotals) Update(now float64, numInQueue int, busy int) {
	delta := now - rt.TimeLastEvent
	if delta < 0 {
		panic(fmt.Sprintf("Update: time moved backwards from %g to %g", rt.TimeLastEvent, now))
	}
	rt.TimeLastEvent = now
	rt.AreaNumInQueue += float64(numInQueue) * delta
	rt.AreaServerStatus += float64(busy) * delta
}

// RecordDelay counts one more customer entering service after waiting delay.
func (rt *RunningTotals) RecordDelay(delay float64) {
	rt.TotalOfDelays += delay
	rt.NumCustomersDelayed++
}

// AverageDelay is the mean delay in queue over delayed customers.
func (rt *RunningTotals) AverageDelay() float64 {
	if rt.NumCustomersDelayed == 0 {
		return 0
	}
	return rt.TotalOfDelays / float64(rt.NumCustomersDelayed)
}

// AverageNumInQueue is the time-average queue length over [0, end].
func (rt *RunningTotals) AverageNumInQueue(end float64) float64 {
	if end <= 0 {
		return 0
	}
	return rt.AreaNumInQueue / end
}

// Utilization is the fraction of [0, end] the server was busy.
func (rt *RunningTotals) Utilization(end float64) float64 {
	if end <= 0 {
		return 0
	}
	return rt.AreaServerStatus / end
}
