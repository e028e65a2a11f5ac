package commands

import (
	"github.com/de-tools/grc-scanner/pkg/runtime/terminal/export"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/spf13/cobra"
)

func NewControlsCmd(reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "controls",
		Short: "List the controls evaluated by the scanner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.Controls(checks.Catalog())
		},
	}
}
