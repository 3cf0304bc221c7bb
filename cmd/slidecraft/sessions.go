package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved presentation sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, _, err := setupStore()
			if err != nil {
				return err
			}

			summaries, err := sessions.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(out, "%s  %-30s %-16s %2d slides  %s\n",
					s.ID, s.Topic, s.Style, s.Slides, s.Updated)
			}
			return nil
		},
	}

	cmd.AddCommand(newSessionsShowCmd(), newSessionsDeleteCmd())
	return cmd
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the full state of a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := setupStore()
			if err != nil {
				return err
			}
			sess, err := sessions.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := setupStore()
			if err != nil {
				return err
			}
			found, err := sessions.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no session with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
