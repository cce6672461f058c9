// Package cmd provides the command-line interface for tcgen.
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	outputDir string
	verbose   bool
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "tcgen",
	Short: "Generate structured test cases from free-text requirements",
	Long: `tcgen converts free-text software requirements into structured,
traceable test cases using deterministic, explainable rules: every
requirement is normalized into Actor-Action-Conditions-Outcome form,
classified, decomposed into atomic behaviors, and expanded into
templated test cases with full explainability metadata.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory to save JSON and Markdown reports")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
