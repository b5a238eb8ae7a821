package cmd

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <start> <end> [compose-dir]",
	Short: "Wait for the groups of a range to finish, then tear them down",
	Long: `Stop waits for each group in [start, end] to log the completion marker
and then runs "compose down -v" on it. With --timeout, groups that do not
finish in time are torn down anyway.

Exit status:
  0  every group finished and was torn down
  1  bad arguments, a range larger than one batch, or interrupted
  2  an index beyond 1048575
  4  a compose command failed
  5  invalid configuration or no compose command found
  6  at least one group did not log the completion marker in time`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStop(cmd, args, false)
	},
}

var stopForceCmd = &cobra.Command{
	Use:   "stopforce <start> <end> [compose-dir]",
	Short: "Tear down the groups of a range without waiting",
	Long: `Stopforce runs "compose down -v" on every group in [start, end] without
checking its logs.

Exit status:
  0  every group was torn down
  1  bad arguments, a range larger than one batch, or interrupted
  2  an index beyond 1048575
  4  a compose command failed
  5  invalid configuration or no compose command found`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStop(cmd, args, true)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(stopForceCmd)
}

func runStop(cmd *cobra.Command, args []string, force bool) error {
	s, err := openSession(cmd, args, true)
	if err != nil {
		return err
	}
	defer s.finish()

	if force {
		logInfo("FORCE STOPPING tests %s.", s.rng)
	} else {
		logInfo("Stopping tests %s.", s.rng)
	}

	report, err := s.app.Controller(consoleHook()).Stop(s.ctx, s.rng, force)
	if err := outcome("down", report, err); err != nil {
		return err
	}

	if force {
		logSuccess("Containers %s FORCE Stopped.", s.rng)
	} else {
		logSuccess("Containers %s Stopped.", s.rng)
	}
	return nil
}
