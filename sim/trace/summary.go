package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents    int     `json:"total_events"`
	Arrivals       int     `json:"arrivals"`
	Departures     int     `json:"departures"`
	MaxNumInQueue  int     `json:"max_num_in_queue"`
	IdleDepartures int     `json:"idle_departures"` // departures that left the server idle
	LastTime       float64 `json:"last_time"`       // time of the last recorded event
	Dropped        int     `json:"dropped"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	summary.Dropped = st.Dropped
	for _, e := range st.Events {
		switch e.Event {
		case "arrival":
			summary.Arrivals++
		case "departure":
			summary.Departures++
			if !e.Busy {
				summary.IdleDepartures++
			}
		}
		if e.NumInQueue > summary.MaxNumInQueue {
			summary.MaxNumInQueue = e.NumInQueue
		}
		summary.LastTime = e.Time
	}
	return summary
}
