package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
)

var queryFlags struct {
	limit   int
	format  string
	dump    bool
	details bool
	ascii   bool
}

var queryCmd = &cobra.Command{
	Use:   "query <term>...",
	Short: "Search gerrit",
	Long: "Search gerrit for changes. The configured project is appended to\n" +
		"the search unless a project: term is given.\n\n" +
		"The default --format comes from the gerrit.queryformat config value.",
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.IntVarP(&queryFlags.limit, "number", "n", 0, "limit the number of results")
	f.StringVarP(&queryFlags.format, "format", "f", "", "output format template")
	f.BoolVar(&queryFlags.dump, "dump", false, "dump all fields of each change")
	f.BoolVar(&queryFlags.details, "details", false, "fetch extra details for --dump")
	f.BoolVar(&queryFlags.ascii, "ascii", false, "strip non-ASCII characters from output")
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc := service(cmd)
	ctx := cmd.Context()

	template := queryFlags.format
	if template == "" {
		var err error
		template, err = svc.Git.ConfigString(ctx, "queryformat")
		if err != nil {
			return err
		}
	}

	changes, err := svc.Query(ctx, core.QueryRequest{
		Search:  strings.Join(args, " "),
		Limit:   queryFlags.limit,
		Details: queryFlags.details,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, change := range changes {
		if queryFlags.dump {
			dumpFields(out, change.Fields())
			continue
		}
		if err := printRecord(out, template, change.Fields(), queryFlags.ascii); err != nil {
			return err
		}
	}
	return nil
}

func dumpFields(out io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, fields[name])
	}
	fmt.Fprintln(out)
}
