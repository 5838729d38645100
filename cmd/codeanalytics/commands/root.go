package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagSeverity     string
	flagFormat       string
	flagOutput       string
	flagWorkers      int
	flagRules        string
	flagNoColor      bool
	flagDisableRules []string
	flagVerboseLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "codeanalytics",
	Short: "Static analyzer for security, performance, and quality issues",
	Long:  `CodeAnalytics scans source files in multiple languages, reports security, performance, and quality findings, and grades every file on a 0-100 scale.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSeverity, "severity", "info", "Minimum severity to report (critical, high, medium, low, info)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, sarif, markdown, html)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Additional rules directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisableRules, "disable-rule", nil, "Rule IDs to disable (comma-separated, repeatable)")
	rootCmd.PersistentFlags().BoolVar(&flagVerboseLog, "debug", false, "Enable debug logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
