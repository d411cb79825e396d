// Package testutil provides shared test infrastructure for the queue
// simulator: the golden dataset of reference runs and float assertions.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one reference run and its expected results.
type GoldenTestCase struct {
	Name              string        `json:"name"`
	MeanInterArrival  float64       `json:"mean_interarrival"`
	MeanService       float64       `json:"mean_service"`
	NumDelaysRequired int           `json:"num_delays_required"`
	Seed              int64         `json:"seed"`
	ArrivalStream     int           `json:"arrival_stream"`
	ServiceStream     int           `json:"service_stream"`
	Metrics           GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected results of a golden test case.
type GoldenMetrics struct {
	// Exact match
	NumEvents int `json:"num_events"`

	// Deterministic floating-point results, compared with a relative tolerance
	AverageDelay      float64 `json:"average_delay"`
	AverageNumInQueue float64 `json:"average_num_in_queue"`
	Utilization       float64 `json:"utilization"`
	EndTime           float64 `json:"end_time"`
	TotalOfDelays     float64 `json:"total_of_delays"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertWithin checks that got lies in [want-absTol, want+absTol].
// Used for statistical estimates whose exact value depends on the seed.
func AssertWithin(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(want-got) > absTol {
		t.Errorf("%s: got %v, want %v ± %v", name, got, want, absTol)
	}
}
