// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admincli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) choiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choice",
		Short: "Manage the choices of a question",
	}

	add := &cobra.Command{
		Use:   "add <question-id> <text>",
		Short: "Add a choice to a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(args[1])
			if text == "" {
				return fmt.Errorf("choice text is required")
			}

			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			// Fails loudly on unknown questions
			if _, err := s.GetQuestion(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("question %q: %w", args[0], err)
			}

			c, err := s.AddChoice(cmd.Context(), args[0], text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <question-id>",
		Short: "List a question's choices with vote counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			results, err := s.ChoiceResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", r.ID, r.Votes, r.Text)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a choice and its votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := s.DeleteChoice(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting choice %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted choice %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
