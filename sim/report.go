package sim

import "github.com/inference-sim/queue-sim/sim/analytic"

// Report aggregates the results of one completed run for final reporting.
type Report struct {
	RunID  string    `json:"run_id,omitempty" yaml:"run_id,omitempty"` // assigned by the caller; empty from the engine
	Config SimConfig `json:"config" yaml:"config"`

	AverageDelay        float64 `json:"average_delay" yaml:"average_delay"`                 // minutes
	AverageNumInQueue   float64 `json:"average_num_in_queue" yaml:"average_num_in_queue"`   // customers
	Utilization         float64 `json:"utilization" yaml:"utilization"`                     // fraction of time busy
	EndTime             float64 `json:"end_time" yaml:"end_time"`                           // minutes
	NumCustomersDelayed int     `json:"num_customers_delayed" yaml:"num_customers_delayed"` // equals Config.NumDelaysRequired
	NumEvents           int     `json:"num_events" yaml:"num_events"`

	TotalOfDelays    float64 `json:"total_of_delays" yaml:"total_of_delays"`
	AreaNumInQueue   float64 `json:"area_num_in_queue" yaml:"area_num_in_queue"`
	AreaServerStatus float64 `json:"area_server_status" yaml:"area_server_status"`

	// Single-server Erlang values for the configured rates
	ErlangB     float64            `json:"erlang_b" yaml:"erlang_b"`
	ErlangC     float64            `json:"erlang_c" yaml:"erlang_c"`
	Theoretical analytic.MM1Metrics `json:"theoretical" yaml:"theoretical"`

	Customers []CustomerRecord `json:"customers,omitempty" yaml:"customers,omitempty"`
}

// Report builds the end-of-run report from the current state.
func (sim *Simulator) Report() *Report {
	lambda, mu := sim.Config.ArrivalRate(), sim.Config.ServiceRate()
	return &Report{
		Config:              sim.Config,
		AverageDelay:        sim.Totals.AverageDelay(),
		AverageNumInQueue:   sim.Totals.AverageNumInQueue(sim.Clock),
		Utilization:         sim.Totals.Utilization(sim.Clock),
		EndTime:             sim.Clock,
		NumCustomersDelayed: sim.Totals.NumCustomersDelayed,
		NumEvents:           sim.EventCount,
		TotalOfDelays:       sim.Totals.TotalOfDelays,
		AreaNumInQueue:      sim.Totals.AreaNumInQueue,
		AreaServerStatus:    sim.Totals.AreaServerStatus,
		ErlangB:             analytic.ErlangB(1, lambda, mu),
		ErlangC:             analytic.ErlangC(1, lambda, mu),
		Theoretical:         analytic.MM1(lambda, mu),
		Customers:           sim.Customers.Completed(),
	}
}
