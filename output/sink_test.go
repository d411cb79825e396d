package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
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

// sampleReport runs a short simulation with customer recording.
func sampleReport(t *testing.T) *sim.Report {
	t.Helper()
	cfg := sim.DefaultSimConfig()
	cfg.MeanInterArrival = 1.0
	cfg.MeanService = 0.5
	cfg.NumDelaysRequired = 25
	cfg.Seed = 3
	cfg.RecordCustomers = true
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	r, err := s.Run()
	require.NoError(t, err)
	r.RunID = "run-test"
	return r
}

type fakeSink struct {
	writes   int
	failures int
	closed   bool
	err      error
}

func (f *fakeSink) Write(context.Context, *sim.Report) error {
	f.writes++
	return f.err
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

type fakeFailureSink struct{ fakeSink }

func (f *fakeFailureSink) WriteFailure(sim.SimConfig, error) error {
	f.failures++
	return nil
}

func TestMultiSink_Write_FansOutAndJoinsErrors(t *testing.T) {
	// GIVEN three sinks, one of which fails
	ok1, ok2 := &fakeSink{}, &fakeSink{}
	bad := &fakeSink{err: errors.New("boom")}
	m := MultiSink{ok1, bad, ok2}

	// WHEN a report is written
	err := m.Write(context.Background(), &sim.Report{})

	// THEN every sink was called and the failure is reported
	assert.Equal(t, 1, ok1.writes)
	assert.Equal(t, 1, bad.writes)
	assert.Equal(t, 1, ok2.writes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	require.NoError(t, m.Close())
	assert.True(t, ok1.closed && bad.closed && ok2.closed)
}

func TestMultiSink_WriteFailure_OnlyFailureWriters(t *testing.T) {
	plain := &fakeSink{}
	fw := &fakeFailureSink{}
	m := MultiSink{plain, fw}

	require.NoError(t, m.WriteFailure(sim.DefaultSimConfig(), sim.ErrQueueOverflow))

	assert.Equal(t, 1, fw.failures)
	assert.Equal(t, 0, plain.writes)
}

func TestNewSinks_DefaultTextToStdout(t *testing.T) {
	var stdout bytes.Buffer
	sinks, err := NewSinks(context.Background(), Config{}, &stdout)
	require.NoError(t, err)
	require.Len(t, sinks, 1)

	require.NoError(t, sinks.Write(context.Background(), sampleReport(t)))
	require.NoError(t, sinks.Close())

	assert.Contains(t, stdout.String(), "Simulation results")
}

func TestNewSinks_FileSinks(t *testing.T) {
	// GIVEN every local file sink enabled
	dir := t.TempDir()
	cfg := Config{
		ReportPath:  filepath.Join(dir, "report.txt"),
		JSONPath:    filepath.Join(dir, "report.json"),
		YAMLPath:    filepath.Join(dir, "report.yaml"),
		CSVPath:     filepath.Join(dir, "customers.csv"),
		ParquetPath: filepath.Join(dir, "customers.parquet"),
	}
	var stdout bytes.Buffer

	// WHEN the sinks are built, written and closed
	sinks, err := NewSinks(context.Background(), cfg, &stdout)
	require.NoError(t, err)
	assert.Len(t, sinks, 5)
	require.NoError(t, sinks.Write(context.Background(), sampleReport(t)))
	require.NoError(t, sinks.Close())

	// THEN each file exists and stdout is untouched
	for _, p := range []string{cfg.ReportPath, cfg.JSONPath, cfg.YAMLPath, cfg.CSVPath, cfg.ParquetPath} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
	assert.Empty(t, stdout.String())
}

func TestNewSinks_UnwritablePath_FailsBeforeRun(t *testing.T) {
	cfg := Config{JSONPath: filepath.Join(t.TempDir(), "missing-dir", "report.json")}

	_, err := NewSinks(context.Background(), cfg, &bytes.Buffer{})

	assert.Error(t, err)
}

func TestConfig_NeedsCustomers(t *testing.T) {
	assert.False(t, Config{JSONPath: "x"}.NeedsCustomers())
	assert.True(t, Config{CSVPath: "x"}.NeedsCustomers())
	assert.True(t, Config{ParquetPath: "x"}.NeedsCustomers())
}
