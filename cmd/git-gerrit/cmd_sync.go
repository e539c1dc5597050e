package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitgerrit/internal/format"
	"gitgerrit/internal/spinner"
)

var syncFlags struct {
	limit   int
	summary bool
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Update the local database of gerrit numbers",
	Long: "Fetch all change refs from gerrit, record each (number, patchset,\n" +
		"commit) in the local database, then scan unprocessed commit messages\n" +
		"for Change-Id and cherry-pick trailers, up to the scan limit.",
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.IntVar(&syncFlags.limit, "limit", 0, "max commit messages to scan this pass (0 = default)")
	f.BoolVar(&syncFlags.summary, "summary", false, "print a table of sync counters")
}

func runSync(cmd *cobra.Command, _ []string) error {
	svc := service(cmd)
	out := cmd.OutOrStdout()

	spin := spinner.New("Syncing with gerrit", out)
	svc.Progress = spin.Spin

	result, err := svc.Sync(cmd.Context(), syncFlags.limit)
	if err != nil {
		return err
	}
	spin.Stop()

	if syncFlags.summary {
		t := format.NewTable(out, "Refs", "Scanned", "Failed")
		t.Row(result.Refs, result.Scanned, result.Failed)
		t.Render()
	}
	fmt.Fprintln(out, "Done.")
	return nil
}
