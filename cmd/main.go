package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-social/agentic-social/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:          "agentic-social",
		Short:        "share assist service for blog posts",
		SilenceUsage: true,
	}

	root.AddCommand(
		service.NewCommand(),
		service.NewProcessCommand(),
		service.NewSummaryCommand(),
		service.NewPurgeCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
