package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

var subnetCmd = &cobra.Command{
	Use:   "subnet <index>",
	Short: "Show the addresses assigned to an iteration",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubnet,
}

func init() {
	rootCmd.AddCommand(subnetCmd)
}

func runSubnet(cmd *cobra.Command, args []string) error {
	n, err := parseIndex(args[0], "iteration")
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	alloc, err := network.Allocate(n)
	if err != nil {
		return errors.AddressSpace(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Index:        %d\n", alloc.Index)
	fmt.Fprintf(out, "Subnet:       %s\n", alloc.Subnet)
	fmt.Fprintf(out, "srsepc:       %s\n", alloc.Core)
	fmt.Fprintf(out, "srsenb:       %s\n", alloc.BaseStation)
	return nil
}
