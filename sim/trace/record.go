// Package trace provides per-event trace recording for single-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// EventRecord captures the system state right after one event was handled.
type EventRecord struct {
	Seq                 int     `json:"seq"`
	Time                float64 `json:"time"`
	Event               string  `json:"event"` // "arrival" or "departure"
	NumInQueue          int     `json:"num_in_queue"`
	Busy                bool    `json:"busy"`
	NumCustomersDelayed int     `json:"num_customers_delayed"`
	AreaNumInQueue      float64 `json:"area_num_in_queue"`
	AreaServerStatus    float64 `json:"area_server_status"`
}
