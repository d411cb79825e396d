package sim

import "fmt"

// EventType identifies one of the two events that drive the M/M/1 model.
//
// The declaration order doubles as the tie-break when two events are
// scheduled for the same instant: lower values fire first, so a departure
// frees the server before a simultaneous arrival is handled.
type EventType int

const (
	// EventDeparture is a service completion.
	EventDeparture EventType = iota
	// EventArrival is a customer arriving at the system.
	EventArrival

	numEventTypes
)

// EventTypes lists every event type in tie-break order.
var EventTypes = []EventType{EventDeparture, EventArrival}

func (t EventType) String() string {
	switch t {
	case EventDeparture:
		return "departure"
	case EventArrival:
		return "arrival"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// EventSnapshot describes the system immediately after an event was handled.
type EventSnapshot struct {
	Seq                 int          // 1-based index of the event within the run
	Time                float64      // simulation time of the event (minutes)
	Type                EventType    // which event fired
	NumInQueue          int          // customers waiting after the event
	Status              ServerStatus // server status after the event
	NumCustomersDelayed int          // customers that have begun service so far
	AreaNumInQueue      float64      // queue-length integral up to Time
	AreaServerStatus    float64      // busy-indicator integral up to Time
}

// Observer is notified after every dispatched event.
// Observers must not mutate the simulator.
type Observer interface {
	OnEvent(EventSnapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(EventSnapshot)

// OnEvent calls f(s).
func (f ObserverFunc) OnEvent(s EventSnapshot) {
	f(s)
}
