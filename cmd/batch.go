package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"tcgen/bootstrap"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process multiple requirements from a file (one per line)",
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

		lines, err := readRequirementLines(args[0])
		if err != nil {
			errorColor.Printf("failed to read input file: %v\n", err)
			return err
		}
		if len(lines) == 0 {
			errorColor.Println("input file contains no requirements")
			return fmt.Errorf("no requirements in %s", args[0])
		}

		headerColor.Println("BATCH PROCESSING MODE")
		infoColor.Printf("Loaded %d requirement(s) from %s\n\n", len(lines), args[0])

		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Suffix = fmt.Sprintf(" processing %d requirements...", len(lines))
		sp.Start()
		output, err := pipeline.ProcessBatch(lines)
		sp.Stop()
		if err != nil {
			errorColor.Printf("batch processing failed: %v\n", err)
			return err
		}

		printSummary(output)

		if outputDir != "" || cfg.Output.Dir != "" {
			if err := saveReports(cfg, output); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

// readRequirementLines loads non-empty lines from a requirements file.
func readRequirementLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
