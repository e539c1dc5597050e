package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var checkoutFlags struct {
	branch   string
	noBranch bool
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <number>",
	Short: "Fetch then checkout by gerrit number",
	Long: "Fetch the current patchset of a gerrit number and check it out,\n" +
		"by default on a local branch named by the gerrit.checkoutbranch\n" +
		"template (default gerrit/{number}/{patchset}).",
	Args: cobra.ExactArgs(1),
	RunE: runCheckout,
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&checkoutFlags.branch, "branch", "", "local branch template to create")
	f.BoolVar(&checkoutFlags.noBranch, "no-branch", false, "checkout FETCH_HEAD, do not create a branch")
	checkoutCmd.MarkFlagsMutuallyExclusive("branch", "no-branch")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid gerrit number %q", args[0])
	}
	svc := service(cmd)
	req, err := fetchRequest(cmd, svc, number, "checkoutbranch", checkoutFlags.branch, checkoutFlags.noBranch)
	if err != nil {
		return err
	}
	req.Checkout = true
	return svc.Fetch(cmd.Context(), req)
}
