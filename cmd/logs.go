package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
)

var logsCmd = &cobra.Command{
	Use:   "logs <start> <end> [compose-dir]",
	Short: "Save the logs of a range of groups",
	Long:  `Logs writes the current compose logs of every group in [start, end] to <logs dir>/<n>.txt.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args, false)
	if err != nil {
		return err
	}
	defer s.finish()

	if err := validateRange(s.rng); err != nil {
		return err
	}

	c := s.app.Controller()
	failed := 0
	for _, n := range s.rng.Indexes() {
		logInfo("saving logs for container %d", n)
		if _, err := c.Archive(s.ctx, n); err != nil {
			if s.ctx.Err() != nil {
				return outcome("logs", nil, s.ctx.Err())
			}
			logWarning("container %d: %v", n, err)
			failed++
		}
	}

	if failed > 0 {
		return errors.CommandFailed("logs", fmt.Errorf("could not save logs for %d of %d containers", failed, s.rng.Len()))
	}
	logSuccess("Saved logs for %s to %s.", s.rng, s.app.Config.LogsDir)
	return nil
}
