package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/generator"
	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

var generateCmd = &cobra.Command{
	Use:   "generate <start> <end> <template-file> <output-dir>",
	Short: "Generate docker-compose files for a range of iterations",
	Long: `Generate writes docker-compose_<n>.yml into the output directory for every
index in [start, end]. Each file gets its own /28 subnet, addresses for
srsepc and srsenb, container names and pcap directory.`,
	Args: cobra.ExactArgs(4),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, err := parseIndex(args[0], "start")
	if err != nil {
		return err
	}
	end, err := parseIndex(args[1], "end")
	if err != nil {
		return err
	}
	templatePath, outputDir := args[2], args[3]
	cmd.SilenceUsage = true

	if err := validateRange(batch.Range{Start: start, End: end}); err != nil {
		return err
	}

	if _, err := generator.New(nil).Generate(cmd.Context(), start, end, templatePath, outputDir); err != nil {
		var (
			loadErr  *generator.LoadError
			fieldErr *generator.FieldError
		)
		switch {
		case errors.Is(err, network.ErrAddressSpaceExhausted):
			return errors.AddressSpace(err)
		case errors.As(err, &loadErr), errors.As(err, &fieldErr):
			return errors.TemplateError(templatePath, err)
		}
		return err
	}

	logSuccess("Generated docker-composes [%d:%d].", start, end)
	return nil
}
