package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/config"
	"github.com/sweetpotato0/slidecraft/pipeline"
)

func newNewCmd(flags *rootFlags) *cobra.Command {
	var (
		urls       []string
		files      []string
		slideCount int
		purpose    string
		mood       string
		audience   string
		style      string
		template   string
		outputDir  string
		formats    []string
		extra      string
	)

	cmd := &cobra.Command{
		Use:   "new <topic>",
		Short: "Research a topic and generate a presentation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, cfg, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if slideCount == 0 {
				slideCount = cfg.SlideCount
			}
			slideCount = config.ClampSlideCount(slideCount)
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}
			if len(formats) == 0 {
				formats = cfg.OutputFormats
			}
			if style == "" {
				style = cfg.Style
			}

			sess, err := o.CreatePresentation(cmd.Context(), pipeline.CreateRequest{
				Topic:             strings.Join(args, " "),
				URLs:              urls,
				Files:             files,
				SlideCount:        slideCount,
				Purpose:           purpose,
				Mood:              mood,
				Audience:          audience,
				StyleName:         style,
				PPTXTemplate:      template,
				OutputDir:         outputDir,
				OutputFormats:     formats,
				ExtraInstructions: extra,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %q (%d slides, style %s)\n",
				sess.PresentationTitle, len(sess.Slides), sess.StyleName)
			fmt.Fprintf(out, "Session: %s\n", sess.ID)
			printOutputs(cmd, sess.OutputPaths)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&urls, "url", nil, "web page to research (repeatable)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "local file to research (repeatable)")
	cmd.Flags().IntVarP(&slideCount, "slides", "n", 0, "target slide count")
	cmd.Flags().StringVar(&purpose, "purpose", "", "presentation purpose, e.g. pitch, lecture")
	cmd.Flags().StringVar(&mood, "mood", "", "desired feel, e.g. bold, calm, playful")
	cmd.Flags().StringVar(&audience, "audience", "", "target audience")
	cmd.Flags().StringVar(&style, "style", "", "style preset name, skips recommendation")
	cmd.Flags().StringVar(&template, "template", "", "PPTX file whose theme to match")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "output format: html, pptx, pdf (repeatable)")
	cmd.Flags().StringVar(&extra, "instructions", "", "extra guidance for the content")

	return cmd
}
