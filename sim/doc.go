// Package sim provides the discrete-event simulation engine for a
// single-server queue (M/M/1).
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - simulator.go: the event loop (timing → statistics update → dispatch)
//   - state.go: server status and the arrival/departure transitions
//   - calendar.go: the two-slot event list and its tie-break
//   - stats.go: time-weighted areas and delay totals
//   - rng.go: the multi-stream generator owned by each Simulator
//
// # Architecture
//
// One Simulator owns every piece of mutable state of a run: clock, calendar,
// wait queue, running totals, and generator. Runs are single-threaded and
// purely sequential. Fatal conditions (queue overflow, empty calendar) are
// returned as *SimulationError values; the caller decides how to exit.
//
// Sub-packages:
//   - sim/analytic/: Erlang-B/C and closed-form M/M/1 measures
//   - sim/replication/: independent replications and confidence intervals
//   - sim/trace/: per-event trace recording
package sim
