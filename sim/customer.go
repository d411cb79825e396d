package sim

// CustomerRecord holds the observed values for one customer.
// It is created when the customer arrives and completed when the customer
// enters service.
type CustomerRecord struct {
	ID           int     `json:"id" yaml:"id"`                       // 1-based service order, 0 until completed
	ArrivalTime  float64 `json:"arrival_time" yaml:"arrival_time"`   // simulation time of arrival
	InterArrival float64 `json:"inter_arrival" yaml:"inter_arrival"` // gap to the previous arrival, 0 for the first
	Delay        float64 `json:"delay" yaml:"delay"`                 // delay in queue, valid once Completed
	Completed    bool    `json:"completed" yaml:"completed"`
}

// CustomerLog is the ordered sequence of customer records of a run.
// Service is FIFO, so the next customer to enter service is always the
// oldest record that is not yet completed.
//
// A nil *CustomerLog is valid and records nothing.
type CustomerLog struct {
	records []CustomerRecord
	served  int
}

// NewCustomerLog creates an empty log.
func NewCustomerLog() *CustomerLog {
	return &CustomerLog{records: make([]CustomerRecord, 0)}
}

// Arrive opens a record for a customer arriving at now after the given gap.
func (l *CustomerLog) Arrive(now, interArrival float64) {
	if l == nil {
		return
	}
	l.records = append(l.records, CustomerRecord{ArrivalTime: now, InterArrival: interArrival})
}

// BeginService completes the oldest open record with its delay and assigns
// the next sequential identifier.
func (l *CustomerLog) BeginService(delay float64) {
	if l == nil || l.served >= len(l.records) {
		return
	}
	rec := &l.records[l.served]
	l.served++
	rec.ID = l.served
	rec.Delay = delay
	rec.Completed = true
}

// Completed returns a copy of the completed records in service order.
func (l *CustomerLog) Completed() []CustomerRecord {
	if l == nil {
		return nil
	}
	out := make([]CustomerRecord, l.served)
	copy(out, l.records[:l.served])
	return out
}

// Len returns the number of records, open or completed.
func (l *CustomerLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}
