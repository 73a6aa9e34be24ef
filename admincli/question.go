// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admincli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/polls/models"
)

func (a *app) questionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage questions",
	}

	var text, publishAt, endAt string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required")
			}
			publish, err := a.parseTime(publishAt)
			if err != nil {
				return fmt.Errorf("invalid --publish-at: %w", err)
			}
			var end *time.Time
			if endAt != "" {
				t, err := a.parseTime(endAt)
				if err != nil {
					return fmt.Errorf("invalid --end-at: %w", err)
				}
				end = &t
			}

			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			q, err := s.CreateQuestion(cmd.Context(), strings.TrimSpace(text), publish, end)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.ID)
			return nil
		},
	}
	add.Flags().StringVar(&text, "text", "", "Question text")
	add.Flags().StringVar(&publishAt, "publish-at", "now", "Publish time (RFC3339 or \"now\")")
	add.Flags().StringVar(&endAt, "end-at", "", "Optional end time (RFC3339)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all questions with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			questions, err := s.ListQuestions(cmd.Context())
			if err != nil {
				return err
			}

			now := a.now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPUBLISHED\tTEXT")
			for _, q := range questions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", q.ID, status(q, now), humanize.RelTime(q.PublishAt, now, "ago", "from now"), q.Text)
			}
			return tw.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question with its choices and votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := s.DeleteQuestion(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting question %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted question %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func (a *app) parseTime(s string) (time.Time, error) {
	if s == "" || s == "now" {
		return a.now(), nil
	}
	return time.Parse(time.RFC3339, s)
}

func status(q models.Question, now time.Time) string {
	switch {
	case !q.IsPublished(now):
		return "scheduled"
	case q.IsClosed(now):
		return "closed"
	default:
		return "open"
	}
}
