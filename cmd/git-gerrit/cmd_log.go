package main

import (
	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
)

var logFlags struct {
	format   string
	number   int
	reverse  bool
	longHash bool
	ascii    bool
}

var logCmd = &cobra.Command{
	Use:   "log [<revision>]",
	Short: "Show oneline log with gerrit numbers",
	Long: "Show the git log one line per commit, annotated with the gerrit\n" +
		"number of each commit from the local database.\n\n" +
		"The default --format comes from the gerrit.logformat config value.",
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	f := logCmd.Flags()
	f.StringVar(&logFlags.format, "format", "", "output format template")
	f.IntVarP(&logFlags.number, "number", "n", 0, "number of commits")
	f.BoolVarP(&logFlags.reverse, "reverse", "r", false, "reverse order")
	f.BoolVarP(&logFlags.longHash, "long-hash", "l", false, "show the full sha1 hash")
	f.BoolVar(&logFlags.ascii, "ascii", false, "strip non-ASCII characters from output")
}

func runLog(cmd *cobra.Command, args []string) error {
	svc := service(cmd)
	ctx := cmd.Context()

	template := logFlags.format
	if template == "" {
		var err error
		template, err = svc.Git.ConfigString(ctx, "logformat")
		if err != nil {
			return err
		}
	}

	revision := ""
	if len(args) == 1 {
		revision = args[0]
	}
	stream, err := svc.Log(ctx, core.LogRequest{
		Revision:  revision,
		MaxCount:  logFlags.number,
		Reverse:   logFlags.reverse,
		ShortHash: !logFlags.longHash,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	out := cmd.OutOrStdout()
	for {
		entry, ok := stream.Next()
		if !ok {
			break
		}
		if err := printRecord(out, template, entry.Fields(), logFlags.ascii); err != nil {
			return err
		}
	}
	return stream.Err()
}
