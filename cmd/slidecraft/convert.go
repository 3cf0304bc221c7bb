package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/pipeline"
)

func newConvertCmd() *cobra.Command {
	var (
		style     string
		outputDir string
		formats   []string
	)

	cmd := &cobra.Command{
		Use:   "convert <file.pptx>",
		Short: "Convert a PowerPoint file to a styled presentation",
		Long: `Convert an existing .pptx file to a styled web presentation. Text,
tables, speaker notes, and embedded images are extracted; images land in an
assets/ directory next to the output. The converted deck gets a session, so
it can be edited and restyled like a generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, cfg, err := setupStore()
			if err != nil {
				return err
			}
			// conversion never calls the model, so no provider is wired
			o, err := pipeline.NewOrchestrator(nil, pipeline.WithStore(sessions))
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = cfg.OutputDir
			}
			if len(formats) == 0 {
				formats = cfg.OutputFormats
			}

			sess, err := o.ConvertPresentation(cmd.Context(), pipeline.ConvertRequest{
				PPTXPath:      args[0],
				StyleName:     style,
				OutputDir:     outputDir,
				OutputFormats: formats,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Converted %q (%d slides, style %s)\n",
				sess.PresentationTitle, len(sess.Slides), sess.StyleName)
			fmt.Fprintf(out, "Session: %s\n", sess.ID)
			printOutputs(cmd, sess.OutputPaths)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "style preset name (default: bold_signal)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "output format: html, pptx, pdf (repeatable)")

	return cmd
}
