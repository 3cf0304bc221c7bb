package main

import (
	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/mcp"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline as an MCP tool server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, _, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			return mcp.Serve(cmd.Context(), o)
		},
	}
}
