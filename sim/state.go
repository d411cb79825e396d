package sim

import "github.com/sirupsen/logrus"

// ServerStatus is the state of the single server.
type ServerStatus int

const (
	Idle ServerStatus = iota
	Busy
)

func (s ServerStatus) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// Indicator returns 1 when the server is busy and 0 when idle.
func (s ServerStatus) Indicator() int {
	if s == Busy {
		return 1
	}
	return 0
}

// arrive handles an arrival event at sim.Clock.
func (sim *Simulator) arrive() error {
	now := sim.Clock
	sim.Calendar.Schedule(EventArrival, now+sim.RNG.Exponential(sim.Config.MeanInterArrival, sim.Config.ArrivalStream))

	gap := 0.0
	if sim.arrivals > 0 {
		gap = now - sim.lastArrival
	}
	sim.lastArrival = now
	sim.arrivals++
	sim.Customers.Arrive(now, gap)

	if sim.Status == Busy {
		if err := sim.WaitQ.Enqueue(now); err != nil {
			return err
		}
		logrus.Debugf("[t=%.4f] arrival queued, %d waiting", now, sim.WaitQ.Len())
		return nil
	}

	// Idle server: the customer is served at once with zero delay.
	sim.Totals.RecordDelay(0)
	sim.Customers.BeginService(0)
	sim.Status = Busy
	sim.Calendar.Schedule(EventDeparture, now+sim.RNG.Exponential(sim.Config.MeanService, sim.Config.ServiceStream))
	logrus.Debugf("[t=%.4f] arrival served immediately", now)
	return nil
}

// depart handles a departure event at sim.Clock.
func (sim *Simulator) depart() error {
	now := sim.Clock

	arrival, ok := sim.WaitQ.Dequeue()
	if !ok {
		sim.Status = Idle
		sim.Calendar.Cancel(EventDeparture)
		logrus.Debugf("[t=%.4f] departure, server idle", now)
		return nil
	}

	delay := now - arrival
	sim.Totals.RecordDelay(delay)
	sim.Customers.BeginService(delay)
	sim.Calendar.Schedule(EventDeparture, now+sim.RNG.Exponential(sim.Config.MeanService, sim.Config.ServiceStream))
	logrus.Debugf("[t=%.4f] departure, next customer waited %.4f, %d waiting", now, delay, sim.WaitQ.Len())
	return nil
}
