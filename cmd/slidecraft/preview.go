package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/export"
)

func newPreviewCmd() *cobra.Command {
	var (
		mood      string
		outputDir string
		title     string
		subtitle  string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate style preview files by mood",
		Long: `Generate up to three style preview HTML files for a mood keyword, to
compare the candidates in a browser before picking one.

Moods: impressed, confident, excited, energized, calm, focused,
inspired, moved, professional, playful, technical, elegant`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := export.WriteMoodPreviews(mood, outputDir, title, subtitle)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d style previews for mood %q:\n", len(results), mood)
			for i, r := range results {
				fmt.Fprintf(out, "  Style %c: %s (%s)\n", 'A'+i, r.DisplayName, r.Vibe)
				fmt.Fprintf(out, "    %s\n", r.Path)
			}
			fmt.Fprintln(out, "\nOpen each file in your browser, then run: slidecraft new --style <name>")
			return nil
		},
	}

	cmd.Flags().StringVar(&mood, "mood", "impressed", "desired audience feeling")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "./slide-previews", "output directory")
	cmd.Flags().StringVar(&title, "title", "", "sample title shown in previews")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "sample subtitle shown in previews")

	return cmd
}
