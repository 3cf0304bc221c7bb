package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/pipeline"
)

func newEditCmd(flags *rootFlags) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "edit <instruction>",
		Short: "Apply a natural language edit to an existing presentation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := pickSession(cmd.Context(), o, sessionID)
			if err != nil {
				return err
			}

			sess, err := o.EditPresentation(cmd.Context(), id, strings.Join(args, " "))
			if err != nil {
				return err
			}

			last := sess.EditHistory[len(sess.EditHistory)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d slides)\n", last.Summary, len(sess.Slides))
			printOutputs(cmd, sess.OutputPaths)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session ID (default: most recent)")
	return cmd
}

// pickSession falls back to the most recently updated session when no ID is
// given.
func pickSession(ctx context.Context, o *pipeline.Orchestrator, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	latest, err := o.LatestSession(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", fmt.Errorf("no sessions found, run 'slidecraft new' first")
	}
	return latest.ID, nil
}
