package analytic

// MM1Metrics holds the steady-state measures of an M/M/1 queue.
// The measures other than Rho are only meaningful when Stable is true;
// they are left at zero otherwise.
type MM1Metrics struct {
	Rho    float64 `json:"rho" yaml:"rho"` // server utilization lambda/mu
	Lq     float64 `json:"lq" yaml:"lq"`   // mean number waiting
	L      float64 `json:"l" yaml:"l"`     // mean number in system
	Wq     float64 `json:"wq" yaml:"wq"`   // mean delay in queue
	W      float64 `json:"w" yaml:"w"`     // mean time in system
	Stable bool    `json:"stable" yaml:"stable"`
}

// MM1 computes the closed-form M/M/1 measures for the given rates.
func MM1(arrivalRate, serviceRate float64) MM1Metrics {
	checkArgs(1, arrivalRate, serviceRate)
	rho := arrivalRate / serviceRate
	m := MM1Metrics{Rho: rho}
	if rho >= 1 {
		return m
	}
	m.Stable = true
	m.Lq = rho * rho / (1 - rho)
	m.L = rho / (1 - rho)
	m.Wq = rho / (serviceRate * (1 - rho))
	m.W = 1 / (serviceRate - arrivalRate)
	return m
}
