package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/pkg/renderers/tui"
)

// dependencies are swapped in tests; zero values mean the real terminal.
type dependencies struct {
	driver tui.PromptDriver
}

func newRootCommand(deps dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "stepform",
		Short:         "Multi-step form with per-field validation",
		Long:          "stepform walks a visitor through the steps of a rule catalog, validating every field before the step can change.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindPersistentFlags(root)

	root.AddCommand(newRunCommand(deps), newServeCommand())
	return root
}
