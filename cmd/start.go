package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <start> <end> [compose-dir]",
	Short: "Start the container groups of a range",
	Long: `Start brings up every group in [start, end] with "compose up -d" and
returns without waiting for them to finish. The range may not exceed one
batch; use fuzz for larger ranges.

Exit status:
  0  every group was started
  1  bad arguments, a range larger than one batch, or interrupted
  2  an index beyond 1048575
  4  a compose command failed to start
  5  invalid configuration or no compose command found`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args, true)
	if err != nil {
		return err
	}
	defer s.finish()

	logInfo("Starting tests %s.", s.rng)
	report, err := s.app.Controller(consoleHook()).Start(s.ctx, s.rng)
	if err := outcome("up", report, err); err != nil {
		return err
	}

	logSuccess("Containers %s Started.", s.rng)
	return nil
}
