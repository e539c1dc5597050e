package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitgerrit/internal/core"
	"gitgerrit/internal/gitcmd"
	"gitgerrit/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "git-gerrit",
	Short: "Gerrit code review helpers for git",
	Long: "git-gerrit bridges git and the Gerrit code review system:\n" +
		"it caches change numbers locally, annotates git log with gerrit\n" +
		"numbers, and fetches, cherry-picks, queries, and reviews changes.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := "warn"
		if rootFlags.verbose {
			level = "debug"
		}
		logging.Init(level, "text", cmd.ErrOrStderr())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(numberCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(cherryPickCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(unpickedCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(installHooksCmd)
	rootCmd.Version = version
}

// service builds the operation service over the repository in the current
// directory, with user-facing output on the command's stdout.
func service(cmd *cobra.Command) *core.Service {
	svc := core.NewService(gitcmd.New())
	svc.Out = cmd.OutOrStdout()
	return svc
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		var notFound *core.NotFoundError
		if errors.As(err, &notFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
