package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/tui"
)

var fuzzCmd = &cobra.Command{
	Use:   "fuzz <start> <end> [compose-dir]",
	Short: "Run the full batched fuzz cycle over a range",
	Long: `Fuzz splits [start, end] into batches of batch_size groups. For each
batch it starts every group, waits for each one to log the completion
marker, tears it down, and pauses for the cooldown before the next batch.
Failed compose commands and timed out groups do not stop the run.

Exit status:
  0  every group finished and was torn down
  1  bad arguments or interrupted
  2  an index beyond 1048575
  4  a compose command failed
  5  invalid configuration or no compose command found
  6  at least one group did not log the completion marker in time
     (takes precedence over 4)`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFuzz,
}

var fuzzTUI bool

func init() {
	fuzzCmd.Flags().BoolVar(&fuzzTUI, "tui", false, "Show an interactive progress view")
	rootCmd.AddCommand(fuzzCmd)
}

func runFuzz(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args, false)
	if err != nil {
		return err
	}
	defer s.finish()

	var report *batch.Report
	if fuzzTUI {
		if !verbose {
			// Structured logs would draw over the view
			defer logging.Setup(logging.Options{JSON: jsonOutput, Output: io.Discard})()
		}
		report, err = tui.Run(s.ctx, "fuzz "+s.rng.String(), s.rng.Len(),
			func(ctx context.Context, hook batch.Hook) (*batch.Report, error) {
				return s.app.Controller(hook).Fuzz(ctx, s.rng)
			})
	} else {
		logInfo("Running full fuzz tests on %s.", s.rng)
		report, err = s.app.Controller(consoleHook()).Fuzz(s.ctx, s.rng)
	}

	if err := outcome("up/down", report, err); err != nil {
		return err
	}

	logSuccess("Testing %s Complete.", s.rng)
	return nil
}
