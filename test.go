package main

import (
	"context"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "List models and send a test prompt, stopping at the first error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), config.Timeout)
			defer cancel()

			api, err := selectedAPI(config)
			if err != nil {
				return err
			}
			p := newProbe(config, api, flowTest)
			res, err := probe.Test(ctx, cmd.OutOrStdout(), setupFor(ctx, api), p)
			record(config, flowTest, res)
			return explain(api.Name, p.Model, err)
		},
	}
}
