package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsmulti/internal/core/domain"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    domain.WorkerCommand,
		Short:  "Build one target from a request on stdin",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.RunWorker(cmd.Context(), c.stdin, cmd.OutOrStdout())
		},
	}
}
