package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/styles"
)

func newStyleCmd(flags *rootFlags) *cobra.Command {
	var (
		sessionID string
		template  string
	)

	cmd := &cobra.Command{
		Use:   "style [preset]",
		Short: "Switch a presentation to a different style and re-export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" && template == "" {
				return fmt.Errorf("pass a preset name or --template")
			}

			o, _, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := pickSession(cmd.Context(), o, sessionID)
			if err != nil {
				return err
			}

			sess, err := o.ChangeStyle(cmd.Context(), id, name, template)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Style changed to %s\n", sess.StyleName)
			printOutputs(cmd, sess.OutputPaths)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session ID (default: most recent)")
	cmd.Flags().StringVar(&template, "template", "", "PPTX file whose theme to extract")
	return cmd
}

func newStylesCmd() *cobra.Command {
	var mood string

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List the built-in style presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var matched map[string]bool
			if mood != "" {
				matched = map[string]bool{}
				for _, name := range styles.PresetsForMood(mood) {
					matched[name] = true
				}
			}

			presets, err := styles.LoadAllPresets()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range presets {
				if matched != nil && !matched[p.Name] {
					continue
				}
				fmt.Fprintf(out, "%-18s %-22s %s\n", p.Name, p.DisplayName, p.Vibe)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mood, "mood", "", "filter to presets matching this mood")
	return cmd
}
