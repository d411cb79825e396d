package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/replication"
)

// replicateCmd runs independent replications of the same configuration
var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Run independent replications and report 95% confidence intervals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppConfig(cmd.Flags())
		if err != nil {
			return err
		}
		return runReplications(app, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	addSimFlags(replicateCmd.Flags())
	replicateCmd.Flags().IntP("replications", "n", defaultReplications, "Number of independent replications")
	replicateCmd.Flags().String("json", "", "Write the replication summary as JSON to this file")
}

// runReplications runs app.Replications replications, drawing a progress bar
// on progress, and prints the summary to stdout.
func runReplications(app AppConfig, stdout, progress io.Writer) error {
	bar := progressbar.NewOptions(app.Replications,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("replications"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	summary, err := replication.Run(app.Sim, app.Replications, func(int, *sim.Report) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	if app.Output.JSONPath != "" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(app.Output.JSONPath, data, 0o644); err != nil {
			return fmt.Errorf("writing replication summary: %w", err)
		}
	}
	return writeSummary(stdout, summary)
}

func writeSummary(w io.Writer, s *replication.Summary) error {
	th := s.Theoretical
	fmt.Fprintf(w, "=============================================\n")
	fmt.Fprintf(w, "|| %d replications, base seed %d, %.0f%% CI\n", s.N, s.BaseSeed, replication.Confidence*100)
	fmt.Fprintf(w, "=============================================\n")
	fmt.Fprintf(w, "|| %-24s %12s %12s %12s\n", "", "mean", "half-width", "theoretical")
	writeEstimate(w, "Average delay in queue", s.Delay, th.Wq, th.Stable)
	writeEstimate(w, "Average number in queue", s.NumInQueue, th.Lq, th.Stable)
	writeEstimate(w, "Server utilization", s.Utilization, th.Rho, true)
	writeEstimate(w, "Simulation end time", s.EndTime, 0, false)
	_, err := fmt.Fprintf(w, "=============================================\n")
	return err
}

func writeEstimate(w io.Writer, name string, e replication.Estimate, theory float64, known bool) {
	th := "-"
	if known {
		th = fmt.Sprintf("%.6f", theory)
	}
	fmt.Fprintf(w, "|| %-24s %12.6f %12.6f %12s\n", name, e.Mean, e.HalfWidth, th)
}
