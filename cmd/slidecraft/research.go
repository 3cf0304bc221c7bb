package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResearchCmd(flags *rootFlags) *cobra.Command {
	var (
		urls  []string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "research <topic>",
		Short: "Run just the research phase and print the bundle as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			research, err := o.ResearchOnly(cmd.Context(), strings.Join(args, " "), urls, files)
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(research, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&urls, "url", nil, "web page to research (repeatable)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "local file to research (repeatable)")
	return cmd
}
