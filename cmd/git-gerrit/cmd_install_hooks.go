package main

import (
	"github.com/spf13/cobra"
)

var installHooksCmd = &cobra.Command{
	Use:   "install-hooks",
	Short: "Install git hooks to create gerrit change-ids",
	Long: "Download the gerrit commit-msg hook from the review host and\n" +
		"install a prepare-commit-msg hook that mints a new Change-Id when\n" +
		"cherry-picking already-merged commits.",
	Args: cobra.NoArgs,
	RunE: runInstallHooks,
}

func runInstallHooks(cmd *cobra.Command, _ []string) error {
	return service(cmd).InstallHooks(cmd.Context())
}
