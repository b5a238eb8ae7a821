package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/health"
	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

var statusCmd = &cobra.Command{
	Use:   "status <start> <end> [compose-dir]",
	Short: "Show the state of a range of groups",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args, false)
	if err != nil {
		return err
	}
	defer s.finish()

	if err := validateRange(s.rng); err != nil {
		return err
	}

	layout := s.app.Layout()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tPROJECT\tSUBNET\tCONTAINERS\tSTATUS")
	fmt.Fprintln(w, "-----\t-------\t------\t----------\t------")

	for _, n := range s.rng.Indexes() {
		p := layout.Project(n)
		subnet, _ := network.SubnetString(n)

		result, err := health.Check(s.ctx, s.app.Runtime, p, s.app.Config.Marker)
		status := formatStatus(result, err)
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", n, p.Name, subnet, result.Containers, status)
	}

	return w.Flush()
}

func formatStatus(result *health.CheckResult, err error) string {
	switch {
	case err != nil:
		return "✗ " + err.Error()
	case !result.Running:
		return "● stopped"
	case result.Complete:
		return "✓ complete"
	default:
		return "○ running"
	}
}
