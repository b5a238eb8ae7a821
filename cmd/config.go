package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Config prints the configuration after applying the config file and
command-line flags. The output is a valid ranfuzz.toml.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	text, err := config.Encode(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
