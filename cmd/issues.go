package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"smartcampus/errs"
	"smartcampus/issuesync"
	"smartcampus/models"
	"smartcampus/store"
	"smartcampus/views"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List and remove reported issues",
}

var issuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		active, _ := cmd.Flags().GetBool("active")
		filter := views.Filter{Status: models.IssueStatus(status), Priority: models.Priority(priority), Active: active}
		return listIssues(cmd.Context(), cmd.OutOrStdout(), newSyncer(), filter)
	},
}

var issuesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an issue after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		var confirm issuesync.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		if yes {
			confirm = issuesync.ConfirmFunc(func(models.Issue) bool { return true })
		}
		return deleteIssue(cmd.Context(), cmd.OutOrStdout(), newSyncer(), models.IssueID(args[0]), confirm)
	},
}

func init() {
	issuesListCmd.Flags().String("status", "", "only issues with this status (Submitted, In Progress, Resolved)")
	issuesListCmd.Flags().String("priority", "", "only issues with this priority (Low, Medium, High, Emergency)")
	issuesListCmd.Flags().Bool("active", false, "hide resolved issues")
	issuesDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	issuesCmd.AddCommand(issuesListCmd, issuesDeleteCmd)
	rootCmd.AddCommand(issuesCmd)
}

func newSyncer() *issuesync.Syncer {
	return issuesync.New(current.client, store.New())
}

func listIssues(ctx context.Context, w io.Writer, s *issuesync.Syncer, filter views.Filter) error {
	if filter.Priority != "" && !filter.Priority.Valid() {
		return errs.Validation("list issues", "priority")
	}
	if err := s.Load(ctx); err != nil {
		return err
	}
	snap := filter.Apply(s.Store().Snapshot())
	renderItems(w, views.Items(snap))
	return nil
}

func deleteIssue(ctx context.Context, w io.Writer, s *issuesync.Syncer, id models.IssueID, confirm issuesync.Confirmer) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	err := s.Remove(ctx, id, confirm)
	switch {
	case errors.Is(err, errs.ErrNotConfirmed):
		fmt.Fprintln(w, "Cancelled.")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(w, "Deleted %s. %d issues remain.\n", id, s.Store().Snapshot().Len())
	return nil
}

// promptConfirmer asks on w and reads the answer from r.
func promptConfirmer(r io.Reader, w io.Writer) issuesync.Confirmer {
	in := bufio.NewReader(r)
	return issuesync.ConfirmFunc(func(issue models.Issue) bool {
		fmt.Fprintf(w, "Delete %q (%s)? [y/N] ", issue.Title, issue.ID)
		answer, _ := in.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}
