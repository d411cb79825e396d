package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lucsky/cuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queue-sim/output"
	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/trace"
)

// runCmd executes one simulation using the layered configuration
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and report the results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppConfig(cmd.Flags())
		if err != nil {
			return err
		}
		return runSimulation(cmd.Context(), app, cmd.OutOrStdout())
	},
}

func init() {
	addSimFlags(runCmd.Flags())
	addOutputFlags(runCmd.Flags())
}

// runSimulation runs app.Sim once and delivers the report to every
// configured sink. A fatal simulation error is written to the sinks as a
// diagnostic and returned unchanged, so ExitCode can classify it.
func runSimulation(ctx context.Context, app AppConfig, stdout io.Writer) (err error) {
	cfg := app.Sim
	if app.Output.NeedsCustomers() && !cfg.RecordCustomers {
		logrus.Info("customer table output requested; enabling customer recording")
		cfg.RecordCustomers = true
	}

	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return err
	}

	var st *trace.SimulationTrace
	if app.Trace.Path != "" {
		tc := trace.TraceConfig{Level: trace.TraceLevelEvents, MaxRecords: app.Trace.MaxRecords}
		if err := tc.Validate(); err != nil {
			return fmt.Errorf("%w: trace: %v", sim.ErrInvalidConfig, err)
		}
		st = trace.NewSimulationTrace(tc)
		s.AddObserver(traceObserver(st))
	}

	sinks, err := output.NewSinks(ctx, app.Output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sinks.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	report, runErr := s.Run()
	if st != nil {
		if terr := writeTrace(app.Trace.Path, st); terr != nil {
			logrus.Errorf("writing trace: %v", terr)
		}
	}
	if runErr != nil {
		if werr := sinks.WriteFailure(cfg, runErr); werr != nil {
			logrus.Errorf("writing failure diagnostic: %v", werr)
		}
		return runErr
	}

	report.RunID = cuid.New()
	logrus.Infof("run %s: %d customers delayed by t=%.4f", report.RunID, report.NumCustomersDelayed, report.EndTime)
	return sinks.Write(ctx, report)
}

// traceObserver records every dispatched event into st.
func traceObserver(st *trace.SimulationTrace) sim.Observer {
	return sim.ObserverFunc(func(e sim.EventSnapshot) {
		st.RecordEvent(trace.EventRecord{
			Seq:                 e.Seq,
			Time:                e.Time,
			Event:               e.Type.String(),
			NumInQueue:          e.NumInQueue,
			Busy:                e.Status == sim.Busy,
			NumCustomersDelayed: e.NumCustomersDelayed,
			AreaNumInQueue:      e.AreaNumInQueue,
			AreaServerStatus:    e.AreaServerStatus,
		})
	})
}

// traceFile is the JSON layout of a written trace.
type traceFile struct {
	Summary *trace.TraceSummary `json:"summary"`
	Events  []trace.EventRecord `json:"events"`
}

func writeTrace(path string, st *trace.SimulationTrace) error {
	data, err := json.MarshalIndent(traceFile{Summary: trace.Summarize(st), Events: st.Events}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
