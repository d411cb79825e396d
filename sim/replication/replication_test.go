package replication

import (
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queue-sim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

func baseConfig() sim.SimConfig {
	cfg := sim.DefaultSimConfig()
	cfg.MeanInterArrival = 1.0
	cfg.MeanService = 0.5
	cfg.NumDelaysRequired = 20000
	cfg.Seed = 2024
	return cfg
}

func TestSeedFor(t *testing.T) {
	assert.Equal(t, int64(1), SeedFor(0, 0))
	assert.Equal(t, int64(11), SeedFor(7, 3))
	assert.NotEqual(t, int64(7), SeedFor(7, 0), "replications never reuse the base key")
}

func TestRun_ConfidenceIntervalsCoverTheory(t *testing.T) {
	// GIVEN 8 replications of 20000 delays at rho = 0.5
	cfg := baseConfig()
	var seen []int

	// WHEN they run
	s, err := Run(cfg, 8, func(i int, r *sim.Report) {
		seen = append(seen, i)
		assert.Empty(t, r.Customers, "replications do not record customers")
	})

	// THEN every replication completed and the intervals cover the M/M/1 values
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, seen)
	assert.Equal(t, 8, s.N)
	assert.Equal(t, int64(2024), s.BaseSeed)
	assert.True(t, s.Delay.Contains(s.Theoretical.Wq), "delay CI %+v misses %v", s.Delay, s.Theoretical.Wq)
	assert.True(t, s.Utilization.Contains(s.Theoretical.Rho), "utilization CI %+v misses %v", s.Utilization, s.Theoretical.Rho)
	assert.InDelta(t, s.Theoretical.Lq, s.NumInQueue.Mean, 0.05)
	assert.Greater(t, s.Delay.HalfWidth, 0.0)
	assert.Less(t, s.Delay.HalfWidth, 0.05)
}

func TestRun_MatchesIndividualRuns(t *testing.T) {
	// GIVEN the second replication's key
	cfg := baseConfig()
	cfg.NumDelaysRequired = 300
	single := cfg
	single.Seed = SeedFor(cfg.Seed, 1)
	want, err := mustRun(t, single)
	require.NoError(t, err)

	// WHEN the batch runs
	var got *sim.Report
	_, err = Run(cfg, 3, func(i int, r *sim.Report) {
		if i == 1 {
			got = r
		}
	})

	// THEN replication 1 equals a standalone run with the same key
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AverageDelay, got.AverageDelay)
	assert.Equal(t, want.EndTime, got.EndTime)
}

func mustRun(t *testing.T, cfg sim.SimConfig) (*sim.Report, error) {
	t.Helper()
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	return s.Run()
}

func TestRun_InvalidInputs(t *testing.T) {
	_, err := Run(baseConfig(), 0, nil)
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))

	cfg := baseConfig()
	cfg.NumDelaysRequired = 0
	_, err = Run(cfg, 3, nil)
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))
}

func TestRun_OverflowAbortsBatch(t *testing.T) {
	cfg := baseConfig()
	cfg.MeanService = 2
	cfg.QueueCapacity = 5

	_, err := Run(cfg, 4, nil)

	assert.True(t, errors.Is(err, sim.ErrQueueOverflow))
	assert.Contains(t, err.Error(), "replication 1")
}

func TestNewEstimate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Estimate{}, NewEstimate(nil))
	})
	t.Run("single sample collapses", func(t *testing.T) {
		e := NewEstimate([]float64{2.5})
		assert.Equal(t, Estimate{Mean: 2.5, Low: 2.5, High: 2.5}, e)
		assert.True(t, e.Contains(2.5))
	})
	t.Run("student t interval", func(t *testing.T) {
		// mean 3, sample std 1.5811, t(0.975, 4) = 2.7764
		e := NewEstimate([]float64{1, 2, 3, 4, 5})
		assert.InDelta(t, 3.0, e.Mean, 1e-12)
		assert.InDelta(t, 1.5811388, e.StdDev, 1e-6)
		assert.InDelta(t, 2.7764451*1.5811388/2.2360680, e.HalfWidth, 1e-5)
		assert.InDelta(t, e.Mean-e.HalfWidth, e.Low, 1e-12)
		assert.InDelta(t, e.Mean+e.HalfWidth, e.High, 1e-12)
		assert.False(t, e.Contains(5.5))
	})
}
