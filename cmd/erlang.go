package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/analytic"
)

var (
	erlangServers     int     // Number of servers m
	erlangArrivalRate float64 // lambda, customers per minute
	erlangServiceRate float64 // mu, customers per minute per server
)

// erlangCmd evaluates the Erlang formulas without simulating
var erlangCmd = &cobra.Command{
	Use:   "erlang",
	Short: "Evaluate the Erlang B and Erlang C formulas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printErlang(cmd.OutOrStdout(), erlangServers, erlangArrivalRate, erlangServiceRate)
	},
}

func init() {
	erlangCmd.Flags().IntVar(&erlangServers, "servers", 1, "Number of servers")
	erlangCmd.Flags().Float64Var(&erlangArrivalRate, "arrival-rate", 1.0, "Arrival rate (customers per minute)")
	erlangCmd.Flags().Float64Var(&erlangServiceRate, "service-rate", 2.0, "Service rate per server (customers per minute)")
}

func printErlang(w io.Writer, servers int, arrivalRate, serviceRate float64) error {
	if servers < 1 {
		return fmt.Errorf("%w: servers must be at least 1, got %d", sim.ErrInvalidConfig, servers)
	}
	if !isRate(arrivalRate) || !isRate(serviceRate) {
		return fmt.Errorf("%w: rates must be positive and finite, got arrival=%v service=%v",
			sim.ErrInvalidConfig, arrivalRate, serviceRate)
	}
	fmt.Fprintf(w, "Servers:           %d\n", servers)
	fmt.Fprintf(w, "Traffic intensity: %.6f Erlang\n", analytic.TrafficIntensity(arrivalRate, serviceRate))
	fmt.Fprintf(w, "Erlang B:          %.6f\n", analytic.ErlangB(servers, arrivalRate, serviceRate))
	_, err := fmt.Fprintf(w, "Erlang C:          %.6f\n", analytic.ErlangC(servers, arrivalRate, serviceRate))
	return err
}

func isRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
