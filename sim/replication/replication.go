// Package replication runs independent replications of the M/M/1 model and
// summarizes them with confidence intervals.
//
// Replications run one after another. Each one builds its own Simulator
// with its own generator, so no state is shared between them.
package replication

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/analytic"
)

// Confidence is the two-sided confidence level of every Estimate.
const Confidence = 0.95

// Estimate is a sample mean with its Student-t confidence interval.
type Estimate struct {
	Mean      float64 `json:"mean" yaml:"mean"`
	StdDev    float64 `json:"std_dev" yaml:"std_dev"`
	HalfWidth float64 `json:"half_width" yaml:"half_width"`
	Low       float64 `json:"low" yaml:"low"`
	High      float64 `json:"high" yaml:"high"`
}

// Contains reports whether v lies inside the interval.
func (e Estimate) Contains(v float64) bool {
	return v >= e.Low && v <= e.High
}

// Summary aggregates the per-replication results.
type Summary struct {
	N           int                 `json:"n" yaml:"n"`
	BaseSeed    int64               `json:"base_seed" yaml:"base_seed"`
	Delay       Estimate            `json:"average_delay" yaml:"average_delay"`
	NumInQueue  Estimate            `json:"average_num_in_queue" yaml:"average_num_in_queue"`
	Utilization Estimate            `json:"utilization" yaml:"utilization"`
	EndTime     Estimate            `json:"end_time" yaml:"end_time"`
	Theoretical analytic.MM1Metrics `json:"theoretical" yaml:"theoretical"`
}

// SeedFor returns the SimulationKey of replication i (0-based).
// Keys never collide with the base run's key.
func SeedFor(base int64, i int) int64 {
	return base + int64(i) + 1
}

// Run executes n replications of cfg. Replication i uses SeedFor(cfg.Seed, i);
// per-customer recording is disabled. onDone, when non-nil, is called after
// each completed replication. The first fatal error aborts the batch.
func Run(cfg sim.SimConfig, n int, onDone func(i int, r *sim.Report)) (*Summary, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: replications must be at least 1, got %d", sim.ErrInvalidConfig, n)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	delays := make([]float64, 0, n)
	queues := make([]float64, 0, n)
	utils := make([]float64, 0, n)
	ends := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		rcfg := cfg
		rcfg.Seed = SeedFor(cfg.Seed, i)
		rcfg.RecordCustomers = false

		s, err := sim.NewSimulator(rcfg)
		if err != nil {
			return nil, err
		}
		report, err := s.Run()
		if err != nil {
			return nil, fmt.Errorf("replication %d (seed %d): %w", i+1, rcfg.Seed, err)
		}
		logrus.Debugf("replication %d: delay=%.4f util=%.4f", i+1, report.AverageDelay, report.Utilization)

		delays = append(delays, report.AverageDelay)
		queues = append(queues, report.AverageNumInQueue)
		utils = append(utils, report.Utilization)
		ends = append(ends, report.EndTime)
		if onDone != nil {
			onDone(i, report)
		}
	}

	return &Summary{
		N:           n,
		BaseSeed:    cfg.Seed,
		Delay:       NewEstimate(delays),
		NumInQueue:  NewEstimate(queues),
		Utilization: NewEstimate(utils),
		EndTime:     NewEstimate(ends),
		Theoretical: analytic.MM1(cfg.ArrivalRate(), cfg.ServiceRate()),
	}, nil
}

// NewEstimate computes the mean and the Confidence-level interval of xs.
// With fewer than two samples the interval collapses to the mean.
func NewEstimate(xs []float64) Estimate {
	if len(xs) == 0 {
		return Estimate{}
	}
	if len(xs) == 1 {
		return Estimate{Mean: xs[0], Low: xs[0], High: xs[0]}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(xs) - 1)}.Quantile(1 - (1-Confidence)/2)
	half := t * std / math.Sqrt(float64(len(xs)))
	return Estimate{
		Mean:      mean,
		StdDev:    std,
		HalfWidth: half,
		Low:       mean - half,
		High:      mean + half,
	}
}
