package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool

	configPath  string
	batchSize   int
	waitTimeout time.Duration
	archiveLogs bool
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "ranfuzz-ctl",
	Short: "Batch orchestrator for srsRAN fuzz tests",
	Long: `ranfuzz-ctl runs fuzz iterations of an srsRAN network in Docker Compose.

Each iteration is a container group (srsepc, srsenb, srsue) with its own
compose project, /28 subnet and container names. Groups are started in
batches, watched until their logs show the completion marker, then torn
down before the next batch starts.

Typical workflow:
  ranfuzz-ctl generate 0 99 template.yml compose/
  ranfuzz-ctl fuzz 0 99 compose/`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Options{Verbose: verbose, JSON: jsonOutput})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return errors.ValidationError("a command is required")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	flags.StringVarP(&configPath, "config", "c", "", "Configuration file (default ./ranfuzz.toml when present)")
	flags.IntVarP(&batchSize, "batch-size", "b", 0, "Container groups per batch")
	flags.DurationVarP(&waitTimeout, "timeout", "t", 0, "Give up waiting for the completion marker after this long (0 waits forever)")
	flags.BoolVar(&archiveLogs, "archive", false, "Save each group's logs to <logs dir>/<n>.txt before teardown")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logHeader  = logging.UserHeader
)
