package main

import (
	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
)

var unpickedFlags struct {
	upstream string
	format   string
	ascii    bool
}

var unpickedCmd = &cobra.Command{
	Use:   "unpicked <downstream-branch>",
	Short: "Find gerrit numbers on the upstream branch not cherry-picked",
	Long: "List commits on the upstream branch that are not on the downstream\n" +
		"branch and have not been cherry-picked onto it, in log order.\n\n" +
		"The default --format comes from the gerrit.unpickedformat config value.",
	Args: cobra.ExactArgs(1),
	RunE: runUnpicked,
}

func init() {
	f := unpickedCmd.Flags()
	f.StringVarP(&unpickedFlags.upstream, "upstream-branch", "u", "HEAD", "upstream branch name")
	f.StringVarP(&unpickedFlags.format, "format", "f", "", "output format template")
	f.BoolVar(&unpickedFlags.ascii, "ascii", false, "strip non-ASCII characters from output")
}

func runUnpicked(cmd *cobra.Command, args []string) error {
	svc := service(cmd)
	ctx := cmd.Context()

	template := unpickedFlags.format
	if template == "" {
		var err error
		template, err = svc.Git.ConfigString(ctx, "unpickedformat")
		if err != nil {
			return err
		}
	}

	entries, err := svc.Unpicked(ctx, core.UnpickedRequest{
		Upstream:   unpickedFlags.upstream,
		Downstream: args[0],
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, entry := range entries {
		if err := printRecord(out, template, entry.Fields(), unpickedFlags.ascii); err != nil {
			return err
		}
	}
	return nil
}
