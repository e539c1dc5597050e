package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gitgerrit/internal/format"
)

var numberFlags struct {
	hash       bool
	ref        bool
	changeID   bool
	pickedFrom bool
	pickedTo   bool
	full       bool
}

var numberCmd = &cobra.Command{
	Use:   "number <number>",
	Short: "Look up a gerrit number in the local database",
	Long: "Print what the local database knows about a gerrit number: the\n" +
		"current patchset's commit, ref, change-id, and cherry-pick relations.\n" +
		"Run 'git-gerrit sync' first to populate the database.",
	Args: cobra.ExactArgs(1),
	RunE: runNumber,
}

func init() {
	f := numberCmd.Flags()
	f.BoolVar(&numberFlags.hash, "hash", false, "print the current patchset commit id")
	f.BoolVar(&numberFlags.ref, "ref", false, "print the current patchset ref")
	f.BoolVar(&numberFlags.changeID, "change-id", false, "print the Change-Id")
	f.BoolVar(&numberFlags.pickedFrom, "cherry-picked-from", false, "print the gerrit number this change was picked from")
	f.BoolVar(&numberFlags.pickedTo, "cherry-picked-to", false, "print the gerrit numbers picked from this change")
	f.BoolVar(&numberFlags.full, "full", false, "print the full record as a table")
	numberCmd.MarkFlagsMutuallyExclusive("hash", "ref", "change-id", "cherry-picked-from", "cherry-picked-to", "full")
}

func runNumber(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid gerrit number %q", args[0])
	}

	change, err := service(cmd).CurrentChange(cmd.Context(), number)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fields := change.Fields()
	switch {
	case numberFlags.hash:
		fmt.Fprintln(out, change.CommitID)
	case numberFlags.ref:
		fmt.Fprintln(out, change.Ref)
	case numberFlags.changeID:
		fmt.Fprintln(out, change.ChangeID)
	case numberFlags.pickedFrom:
		fmt.Fprintln(out, fields["cherry_picked_from"])
	case numberFlags.pickedTo:
		fmt.Fprintln(out, fields["cherry_picked_to"])
	case numberFlags.full:
		t := format.NewTable(out, "Field", "Value")
		for _, name := range []string{
			"number", "current_patchset", "commit_id", "change_id",
			"ref", "cherry_picked_from", "cherry_picked_from_hash",
			"cherry_picked_to", "flags",
		} {
			t.Row(name, fields[name])
		}
		t.Render()
	default:
		line := []string{fields["number"], fields["current_patchset"], change.CommitID}
		fmt.Fprintln(out, strings.Join(line, " "))
	}
	return nil
}
