// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admincli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/polls/auth"
)

func (a *app) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("--password is required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			u, err := s.CreateUser(cmd.Context(), args[0], hash, a.now())
			if err != nil {
				return fmt.Errorf("creating user %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "Account password")

	cmd.AddCommand(add)
	return cmd
}
