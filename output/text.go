package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inference-sim/queue-sim/sim"
)

const banner = "============================================="

// TextSink writes the human-readable report.
type TextSink struct {
	w      io.Writer
	closer io.Closer
}

// NewTextSink writes the report to w. Close does not close w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// NewTextFileSink creates (or truncates) path and writes the report there.
func NewTextFileSink(path string) (*TextSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening report file: %w", err)
	}
	return &TextSink{w: f, closer: f}, nil
}

// Write renders the parameter header followed by the results.
func (t *TextSink) Write(_ context.Context, r *sim.Report) error {
	return WriteText(t.w, r)
}

// WriteFailure renders the parameter header followed by the fatal diagnostic.
func (t *TextSink) WriteFailure(cfg sim.SimConfig, err error) error {
	return WriteFailure(t.w, cfg, err)
}

// Close closes the underlying file, if the sink owns one.
func (t *TextSink) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// WriteText renders r in the banner layout.
func WriteText(w io.Writer, r *sim.Report) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, r.Config)

	fmt.Fprintf(bw, "\n%s\n|| Simulation results\n%s\n", banner, banner)
	fmt.Fprintf(bw, "|| Average delay in queue:          %12.6f minutes\n", r.AverageDelay)
	fmt.Fprintf(bw, "|| Average number in queue:         %12.6f customers\n", r.AverageNumInQueue)
	fmt.Fprintf(bw, "|| Server utilization:              %12.6f\n", r.Utilization)
	fmt.Fprintf(bw, "|| Simulation ended at:             %12.6f minutes\n", r.EndTime)
	fmt.Fprintf(bw, "|| Events processed:                %12d\n", r.NumEvents)

	fmt.Fprintf(bw, "%s\n|| Erlang formulas (1 server)\n%s\n", banner, banner)
	fmt.Fprintf(bw, "|| Erlang B:                        %12.6f\n", r.ErlangB)
	fmt.Fprintf(bw, "|| Erlang C:                        %12.6f\n", r.ErlangC)

	th := r.Theoretical
	fmt.Fprintf(bw, "%s\n|| Theoretical M/M/1 (rho = %.4f)\n%s\n", banner, th.Rho, banner)
	if th.Stable {
		fmt.Fprintf(bw, "|| Wq:                              %12.6f minutes\n", th.Wq)
		fmt.Fprintf(bw, "|| Lq:                              %12.6f customers\n", th.Lq)
	} else {
		fmt.Fprintf(bw, "|| unstable: arrival rate >= service rate\n")
	}
	fmt.Fprintf(bw, "%s\n", banner)

	if len(r.Customers) > 0 {
		fmt.Fprintf(bw, "\n%s\n|| Customer data\n%s\n", banner, banner)
		fmt.Fprintf(bw, "ID, inter-arrival time, delay in queue\n")
		for _, c := range r.Customers {
			fmt.Fprintf(bw, "%d, %.6f, %.6f\n", c.ID, c.InterArrival, c.Delay)
		}
		fmt.Fprintf(bw, "%s\n", banner)
	}
	return bw.Flush()
}

// WriteFailure renders the header followed by a diagnostic for err,
// including the simulation time at which the run aborted when known.
func WriteFailure(w io.Writer, cfg sim.SimConfig, err error) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, cfg)
	fmt.Fprintf(bw, "\n%s\n|| Simulation aborted\n%s\n", banner, banner)
	fmt.Fprintf(bw, "|| Error: %s\n", strings.TrimSpace(err.Error()))
	if t, ok := sim.FailureTime(err); ok {
		fmt.Fprintf(bw, "|| Time:  %.6f minutes\n", t)
	}
	fmt.Fprintf(bw, "%s\n", banner)
	return bw.Flush()
}

func writeHeader(w io.Writer, cfg sim.SimConfig) {
	fmt.Fprintf(w, "%s\n|| Single-server queueing system (M/M/1)\n%s\n", banner, banner)
	fmt.Fprintf(w, "|| Mean interarrival time:  %12.6f minutes\n", cfg.MeanInterArrival)
	fmt.Fprintf(w, "|| Mean service time:       %12.6f minutes\n", cfg.MeanService)
	fmt.Fprintf(w, "|| Number of customers:     %12d\n", cfg.NumDelaysRequired)
	fmt.Fprintf(w, "|| Queue capacity:          %12d\n", cfg.QueueCapacity)
	fmt.Fprintf(w, "|| Seed:                    %12d\n", cfg.Seed)
	fmt.Fprintf(w, "|| Streams (arrival/serv.): %9d/%2d\n", cfg.ArrivalStream, cfg.ServiceStream)
	fmt.Fprintf(w, "%s\n", banner)
}
