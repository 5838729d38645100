package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LetsJonnTV/CodeAnalytics/internal/update"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

const githubRepo = "LetsJonnTV/CodeAnalytics"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codeanalytics %s (commit: %s)\n", Version, Commit)
		if r := update.CheckLatest(Version, githubRepo); r != nil && r.NeedsUpdate() {
			fmt.Printf("\nA newer version is available: %s\n  %s\n", r.Latest, r.UpdateURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
