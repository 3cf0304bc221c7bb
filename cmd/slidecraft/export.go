package main

import (
	"github.com/spf13/cobra"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		sessionID string
		formats   []string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an existing presentation to additional formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, cfg, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := pickSession(cmd.Context(), o, sessionID)
			if err != nil {
				return err
			}
			if len(formats) == 0 {
				formats = cfg.OutputFormats
			}

			paths, err := o.ExportFormats(cmd.Context(), id, formats, outputDir)
			if err != nil {
				return err
			}
			printOutputs(cmd, paths)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session ID (default: most recent)")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "output format: html, pptx, pdf (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (default: the session's)")
	return cmd
}
