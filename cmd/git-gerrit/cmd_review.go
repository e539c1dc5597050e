package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
)

var reviewFlags struct {
	branch       string
	message      string
	codeReview   string
	verified     string
	abandon      bool
	restore      bool
	addReviewers []string
}

var reviewCmd = &cobra.Command{
	Use:   "review <number>",
	Short: "Submit a review by gerrit number",
	Long: "Submit votes, messages, and status changes over the gerrit ssh\n" +
		"interface. Requires a gerrit account with an imported ssh public key.",
	Example: "  $ git-gerrit review --message=\"Good Job\" --code-review=\"+1\" 12345\n" +
		"  $ git-gerrit review --message=\"Works for me\" --verified=\"+1\" 12345\n" +
		"  $ git-gerrit review --add-reviewer=\"tycobb@yoyodyne.com\" 12345",
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	f := reviewCmd.Flags()
	f.StringVar(&reviewFlags.branch, "branch", "", "branch name")
	f.StringVar(&reviewFlags.message, "message", "", "review message")
	f.StringVar(&reviewFlags.codeReview, "code-review", "", "code review vote (-2..+2)")
	f.StringVar(&reviewFlags.verified, "verified", "", "verified vote (-1..+1)")
	f.BoolVar(&reviewFlags.abandon, "abandon", false, "set status to abandoned")
	f.BoolVar(&reviewFlags.restore, "restore", false, "set status to open")
	f.StringArrayVar(&reviewFlags.addReviewers, "add-reviewer", nil, "invite reviewer (repeatable)")
	reviewCmd.MarkFlagsMutuallyExclusive("abandon", "restore")
}

func runReview(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid gerrit number %q", args[0])
	}
	return service(cmd).Review(cmd.Context(), core.ReviewRequest{
		Number:       number,
		Branch:       reviewFlags.branch,
		Message:      reviewFlags.message,
		CodeReview:   reviewFlags.codeReview,
		Verified:     reviewFlags.verified,
		Abandon:      reviewFlags.abandon,
		Restore:      reviewFlags.restore,
		AddReviewers: reviewFlags.addReviewers,
	})
}
