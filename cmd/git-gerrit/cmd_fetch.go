package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
)

var fetchFlags struct {
	branch   string
	noBranch bool
	checkout bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <number>",
	Short: "Fetch by gerrit number",
	Long: "Fetch the current patchset of a gerrit number, by default to a\n" +
		"local branch named by the gerrit.fetchbranch template\n" +
		"(default gerrit/{number}/{patchset}).",
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchFlags.branch, "branch", "", "local branch template to create")
	f.BoolVar(&fetchFlags.noBranch, "no-branch", false, "fetch to FETCH_HEAD, do not create a branch")
	f.BoolVar(&fetchFlags.checkout, "checkout", false, "checkout after fetch")
	fetchCmd.MarkFlagsMutuallyExclusive("branch", "no-branch")
}

func runFetch(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid gerrit number %q", args[0])
	}
	svc := service(cmd)
	req, err := fetchRequest(cmd, svc, number, "fetchbranch", fetchFlags.branch, fetchFlags.noBranch)
	if err != nil {
		return err
	}
	req.Checkout = fetchFlags.checkout
	return svc.Fetch(cmd.Context(), req)
}

// fetchRequest resolves the branch template for a fetch: the flag value
// when given, otherwise the configured template, otherwise the built-in
// default. The gerrit.no-branch config value applies when neither branch
// flag was used.
func fetchRequest(cmd *cobra.Command, svc *core.Service, number int, configKey, branchFlag string, noBranch bool) (core.FetchRequest, error) {
	ctx := cmd.Context()
	branch := branchFlag
	if branch == "" {
		var err error
		branch, err = svc.Git.ConfigString(ctx, configKey)
		if err != nil {
			return core.FetchRequest{}, err
		}
		if branch == "" {
			branch = "gerrit/{number}/{patchset}"
		}
	}
	if !noBranch && branchFlag == "" {
		var err error
		noBranch, err = svc.Git.ConfigBool(ctx, "no-branch")
		if err != nil {
			return core.FetchRequest{}, err
		}
	}
	return core.FetchRequest{Number: number, Branch: branch, NoBranch: noBranch}, nil
}
