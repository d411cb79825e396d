// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulation time, system state,
// and the event loop of one M/M/1 run.
//
// A Simulator owns its generator, calendar, queue, and totals; nothing is
// shared between instances, so independent runs never interfere.
type Simulator struct {
	Config SimConfig
	Clock  float64 // current simulation time (minutes)
	// Calendar holds the next arrival and departure times
	Calendar *Calendar
	// WaitQ holds arrival times of customers waiting for the server
	WaitQ     *WaitQueue
	Status    ServerStatus
	Totals    RunningTotals
	Customers *CustomerLog // nil unless Config.RecordCustomers
	RNG       *LCG
	// EventCount is the number of events dispatched since Initialize
	EventCount int

	observers   []Observer
	lastArrival float64
	arrivals    int
	initialized bool
}

// NewSimulator validates cfg and builds a simulator with its own generator.
// Invalid configurations are rejected here, before any event runs.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		Config:   cfg,
		Calendar: NewCalendar(),
		WaitQ:    NewWaitQueue(cfg.QueueCapacity),
		RNG:      NewLCG(NewSimulationKey(cfg.Seed)),
	}, nil
}

// AddObserver registers o to be notified after every event.
func (sim *Simulator) AddObserver(o Observer) {
	sim.observers = append(sim.observers, o)
}

// Initialize resets clock, state, and statistics and schedules the first
// arrival. The generator is not reset: a fresh run needs a fresh Simulator.
func (sim *Simulator) Initialize() {
	sim.Clock = 0
	sim.Status = Idle
	sim.WaitQ = NewWaitQueue(sim.Config.QueueCapacity)
	sim.Totals = RunningTotals{}
	sim.EventCount = 0
	sim.lastArrival = 0
	sim.arrivals = 0
	sim.Customers = nil
	if sim.Config.RecordCustomers {
		sim.Customers = NewCustomerLog()
	}

	sim.Calendar.Reset()
	sim.Calendar.Schedule(EventArrival, sim.Clock+sim.RNG.Exponential(sim.Config.MeanInterArrival, sim.Config.ArrivalStream))
	sim.Calendar.Cancel(EventDeparture)
	sim.initialized = true
}

// Done reports whether the required number of delays has been observed.
func (sim *Simulator) Done() bool {
	return sim.Totals.NumCustomersDelayed >= sim.Config.NumDelaysRequired
}

// timing selects the next event and advances the clock to it.
func (sim *Simulator) timing() (EventType, error) {
	ev, at, err := sim.Calendar.Next()
	if err != nil {
		return ev, err
	}
	sim.Clock = at
	return ev, nil
}

// Step dispatches exactly one event: advance time, integrate the
// pre-event state, then apply the event. Fatal conditions are returned as
// *SimulationError.
func (sim *Simulator) Step() error {
	if !sim.initialized {
		sim.Initialize()
	}

	ev, err := sim.timing()
	if err != nil {
		return &SimulationError{Time: sim.Clock, Err: err}
	}

	sim.Totals.Update(sim.Clock, sim.WaitQ.Len(), sim.Status.Indicator())

	switch ev {
	case EventArrival:
		err = sim.arrive()
	case EventDeparture:
		err = sim.depart()
	default:
		err = fmt.Errorf("unknown event type %d", int(ev))
	}
	if err != nil {
		return &SimulationError{Time: sim.Clock, Err: err}
	}

	sim.EventCount++
	sim.notify(ev)
	return nil
}

func (sim *Simulator) notify(ev EventType) {
	if len(sim.observers) == 0 {
		return
	}
	snap := EventSnapshot{
		Seq:                 sim.EventCount,
		Time:                sim.Clock,
		Type:                ev,
		NumInQueue:          sim.WaitQ.Len(),
		Status:              sim.Status,
		NumCustomersDelayed: sim.Totals.NumCustomersDelayed,
		AreaNumInQueue:      sim.Totals.AreaNumInQueue,
		AreaServerStatus:    sim.Totals.AreaServerStatus,
	}
	for _, o := range sim.observers {
		o.OnEvent(snap)
	}
}

// Run executes a complete simulation: initialize, dispatch events until the
// required number of delays is reached, then build the report.
func (sim *Simulator) Run() (*Report, error) {
	sim.Initialize()
	logrus.Infof("[t=%.4f] Starting M/M/1 run: mean interarrival=%g, mean service=%g, delays=%d, capacity=%d, key=%d",
		sim.Clock, sim.Config.MeanInterArrival, sim.Config.MeanService, sim.Config.NumDelaysRequired,
		sim.Config.QueueCapacity, sim.RNG.Key())

	for !sim.Done() {
		if err := sim.Step(); err != nil {
			logrus.Errorf("Simulation aborted: %v", err)
			return nil, err
		}
	}

	logrus.Infof("[t=%.4f] Simulation ended after %d events", sim.Clock, sim.EventCount)
	return sim.Report(), nil
}
