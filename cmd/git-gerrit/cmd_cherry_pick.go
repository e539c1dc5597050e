package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cherryPickFlags struct {
	branch string
}

var cherryPickCmd = &cobra.Command{
	Use:   "cherry-pick <number>",
	Short: "Cherry-pick from an upstream branch by gerrit number",
	Long: "Find the commit of a gerrit number on the upstream branch and\n" +
		"cherry-pick it with -x to make a new gerrit. With the hooks from\n" +
		"'git-gerrit install-hooks' in place, the new commit gets a fresh\n" +
		"Change-Id.",
	Example: "  $ git-gerrit install-hooks\n" +
		"  $ git checkout -b fix origin/the-stable-branch\n" +
		"  $ git-gerrit cherry-pick 1234 -b origin/master\n" +
		"  $ git push gerrit HEAD:refs/for/the-stable-branch",
	Args: cobra.ExactArgs(1),
	RunE: runCherryPick,
}

func init() {
	cherryPickCmd.Flags().StringVarP(&cherryPickFlags.branch, "branch", "b", "origin/master", "upstream branch")
}

func runCherryPick(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid gerrit number %q", args[0])
	}
	return service(cmd).CherryPick(cmd.Context(), number, cherryPickFlags.branch)
}
