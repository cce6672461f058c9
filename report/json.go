// Package report serializes batch outputs to JSON and Markdown. The
// JSON form is validated against an embedded schema before being
// written; the result drives the audit log's validation status.
package report

import (
	"encoding/json"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tcgen/core"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed schema.json
var outputSchemaJSON []byte

// Writer persists batch outputs to a directory with timestamped
// filenames.
type Writer struct {
	outputDir string
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewWriter creates a Writer targeting outputDir; the directory is
// created on first write.
func NewWriter(outputDir string, logger *zap.SugaredLogger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger, now: time.Now}
}

// Validate checks the serialized output against the embedded JSON
// schema, returning any violation descriptions.
func Validate(output *core.BatchOutput) ([]string, error) {
	doc, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output for validation: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(outputSchemaJSON),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}
	var violations []string
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}

// SaveJSON validates and writes the batch output as pretty-printed JSON,
// returning the file path. Validation violations downgrade the audit
// log's validation status but never block the write; the report is the
// audit artifact either way.
func (w *Writer) SaveJSON(output *core.BatchOutput) (string, error) {
	violations, err := Validate(output)
	if err != nil {
		return "", err
	}
	// Stamp the validation outcome on a copy; pipeline output is never
	// mutated after construction.
	stamped := *output
	if len(violations) > 0 {
		stamped.AuditLog.ValidationStatus = "failed"
		stamped.AuditLog.Errors = append(append([]string{}, stamped.AuditLog.Errors...), violations...)
		if w.logger != nil {
			w.logger.Warnw("batch output failed schema validation", "violations", len(violations))
		}
	} else {
		stamped.AuditLog.ValidationStatus = "passed"
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("tc-output-%s.json", w.now().Format("20060102-150405")))

	data, err := json.MarshalIndent(&stamped, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write JSON report: %w", err)
	}
	if w.logger != nil {
		w.logger.Infow("JSON report written", "path", path)
	}
	return path, nil
}
