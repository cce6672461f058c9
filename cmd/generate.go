package cmd

import (
	"fmt"

	"tcgen/bootstrap"
	"tcgen/config"
	"tcgen/core"
	"tcgen/report"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <requirement text>",
	Short: "Generate test cases from a single requirement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, sugar, err := bootstrap.InitLogger()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		cfg, err := bootstrap.InitConfig(sugar)
		if err != nil {
			return err
		}
		pipeline, err := bootstrap.InitPipeline(cfg, sugar)
		if err != nil {
			return err
		}

		headerColor.Println("TCGEN - TEST CASE GENERATOR")
		infoColor.Printf("[INPUT] %s\n\n", args[0])

		output, err := pipeline.Process(args[0])
		if err != nil {
			errorColor.Printf("generation failed: %v\n", err)
			return err
		}

		printSummary(output)

		if outputDir != "" {
			if err := saveReports(cfg, output); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// printSummary renders the CLI summary of a batch output.
func printSummary(output *core.BatchOutput) {
	headerColor.Println("GENERATION SUMMARY")
	fmt.Printf("  Requirements Processed: %d\n", len(output.NormalizedRequirements))
	fmt.Printf("  Test Cases Generated:   %d\n", len(output.TestCases))
	fmt.Printf("  Overall Coverage:       %d%%\n\n", output.Coverage.OverallCoverage)

	for _, tc := range output.TestCases {
		successColor.Printf("  [%s] ", tc.TestType)
		fmt.Println(tc.Title)
		fmt.Printf("    ID: %s  Priority: %s\n", tc.TestCaseID, tc.Priority)
		if verbose {
			fmt.Printf("    Steps: %d  Expected: %s\n", len(tc.Steps), tc.ExpectedResult)
		}
	}

	ambiguous := 0
	for _, req := range output.NormalizedRequirements {
		if req.Ambiguity.IsAmbiguous {
			ambiguous++
		}
	}
	if ambiguous > 0 {
		fmt.Println()
		warningColor.Printf("  Ambiguous requirements: %d\n", ambiguous)
		for _, req := range output.NormalizedRequirements {
			if !req.Ambiguity.IsAmbiguous {
				continue
			}
			fmt.Printf("    %s:\n", req.RequirementID)
			for _, iss := range req.Ambiguity.Issues {
				fmt.Printf("      - %s\n", iss)
			}
			for _, q := range req.Ambiguity.ClarifyingQuestions {
				fmt.Printf("      ? %s\n", q)
			}
		}
	}

	if len(output.Coverage.GapsDetected) > 0 && verbose {
		fmt.Println()
		warningColor.Println("  Coverage gaps:")
		for _, gap := range output.Coverage.GapsDetected {
			fmt.Printf("    - %s\n", gap)
		}
	}
}

// saveReports writes the JSON and Markdown reports. The --output flag
// wins over the configured directory.
func saveReports(cfg *config.Config, output *core.BatchOutput) error {
	dir := outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	writer := report.NewWriter(dir, nil)

	jsonPath, err := writer.SaveJSON(output)
	if err != nil {
		errorColor.Printf("failed to save JSON report: %v\n", err)
		return err
	}
	mdPath, err := writer.SaveMarkdown(output)
	if err != nil {
		errorColor.Printf("failed to save Markdown report: %v\n", err)
		return err
	}

	successColor.Printf("\n  Output saved to: %s\n", jsonPath)
	successColor.Printf("  Markdown report saved to: %s\n", mdPath)
	return nil
}
