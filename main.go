package main

import (
	"os"

	"github.com/ranfuzz/ranfuzz-ctl/cmd"
	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
