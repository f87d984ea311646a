package commands

import (
	"github.com/gmn-dev/dispatch/pkg/runtime/terminal/export"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/spf13/cobra"
)

func NewTiersCmd(tiers commission.TierTable, reporter *export.TierReporter) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the commission tier table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.Handle(tiers)
		},
	}
}
