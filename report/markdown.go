package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tcgen/core"
)

// SaveMarkdown writes the human-readable report and returns the file
// path.
func (w *Writer) SaveMarkdown(output *core.BatchOutput) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("tc-report-%s.md", w.now().Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(RenderMarkdown(output, w.now())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write Markdown report: %w", err)
	}
	if w.logger != nil {
		w.logger.Infow("Markdown report written", "path", path)
	}
	return path, nil
}

// RenderMarkdown renders a batch output as a Markdown report.
func RenderMarkdown(output *core.BatchOutput, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Test Case Generation Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", core.Timestamp(now))

	fmt.Fprintf(&b, "## Summary\n")
	fmt.Fprintf(&b, "- Requirements Processed: %d\n", len(output.NormalizedRequirements))
	fmt.Fprintf(&b, "- Test Cases Generated: %d\n", len(output.TestCases))
	fmt.Fprintf(&b, "- Overall Coverage: %d%%\n\n", output.Coverage.OverallCoverage)

	fmt.Fprintf(&b, "## Normalized Requirements\n\n")
	for _, req := range output.NormalizedRequirements {
		fmt.Fprintf(&b, "### %s\n", req.RequirementID)
		fmt.Fprintf(&b, "**Source:** %s\n\n", req.SourceText)
		fmt.Fprintf(&b, "**Normalized:**\n")
		fmt.Fprintf(&b, "- Actor: %s\n", req.Normalized.Actor)
		fmt.Fprintf(&b, "- Action: %s\n", req.Normalized.Action)
		fmt.Fprintf(&b, "- Conditions: %s\n", strings.Join(req.Normalized.Conditions, ", "))
		fmt.Fprintf(&b, "- Expected Outcome: %s\n\n", req.Normalized.ExpectedOutcome)
		fmt.Fprintf(&b, "**Classification:** %s\n", strings.Join(req.Classification, ", "))
		fmt.Fprintf(&b, "**Priority:** %s\n\n", req.PriorityHint)
		if req.Ambiguity.IsAmbiguous {
			fmt.Fprintf(&b, "**Ambiguity Issues:**\n")
			for _, iss := range req.Ambiguity.Issues {
				fmt.Fprintf(&b, "- %s\n", iss)
			}
			fmt.Fprintf(&b, "\n**Clarifying Questions:**\n")
			for _, q := range req.Ambiguity.ClarifyingQuestions {
				fmt.Fprintf(&b, "- %s\n", q)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "## Generated Test Cases\n\n")
	for _, tc := range output.TestCases {
		fmt.Fprintf(&b, "### %s\n", tc.TestCaseID)
		fmt.Fprintf(&b, "**Title:** %s\n", tc.Title)
		fmt.Fprintf(&b, "**Type:** %s\n", tc.TestType)
		fmt.Fprintf(&b, "**Priority:** %s\n", tc.Priority)
		fmt.Fprintf(&b, "**Mapped Requirement:** %s\n\n", tc.MappedRequirementID)
		fmt.Fprintf(&b, "**Preconditions:**\n")
		for _, p := range tc.Preconditions {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		fmt.Fprintf(&b, "\n**Steps:**\n")
		for _, step := range tc.Steps {
			fmt.Fprintf(&b, "%d. %s\n", step.StepNumber, step.Action)
			if step.ExpectedIntermediate != nil {
				fmt.Fprintf(&b, "   Expected: %s\n", *step.ExpectedIntermediate)
			}
		}
		fmt.Fprintf(&b, "\n**Expected Result:** %s\n\n", tc.ExpectedResult)
	}

	if len(output.Coverage.GapsDetected) > 0 {
		fmt.Fprintf(&b, "## Coverage Gaps\n\n")
		for _, gap := range output.Coverage.GapsDetected {
			fmt.Fprintf(&b, "- %s\n", gap)
		}
		b.WriteString("\n")
	}

	return b.String()
}
