// Package ingest cleans raw requirement text and splits it into chunks
// before normalization. Chunk boundaries carry no semantic weight; the
// normalizer re-tokenizes the full text. The sanitization warnings are
// kept for the audit trail.
package ingest

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxTextLength bounds accepted input to prevent memory exhaustion on
// pasted documents. Longer input is truncated with a warning.
const MaxTextLength = 1024 * 1024

// Result is the ingestion output: cleaned text chunks plus any warnings
// produced while sanitizing.
type Result struct {
	Chunks               []string `json:"chunks"`
	SanitizationWarnings []string `json:"sanitization_warnings"`
}

// Service sanitizes and chunks raw requirement text.
type Service struct {
	logger *zap.SugaredLogger
}

// NewService creates an ingestion service.
func NewService(logger *zap.SugaredLogger) *Service {
	return &Service{logger: logger}
}

// Ingest sanitizes text and splits it into one chunk per non-empty line
// or sentence group. Control characters are stripped with a warning;
// invalid UTF-8 is replaced. Empty input yields zero chunks and a
// warning rather than an error.
func (s *Service) Ingest(text string) Result {
	var warnings []string

	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
		warnings = append(warnings, fmt.Sprintf("input truncated to %d bytes", MaxTextLength))
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
		warnings = append(warnings, "invalid UTF-8 sequences replaced")
	}

	cleaned, stripped := stripControl(text)
	if stripped > 0 {
		warnings = append(warnings, fmt.Sprintf("stripped %d control character(s)", stripped))
	}

	chunks := chunkLines(cleaned)
	if len(chunks) == 0 {
		warnings = append(warnings, "no requirement text found after sanitization")
	}

	if s.logger != nil {
		s.logger.Debugw("ingested requirement text",
			"chunks", len(chunks),
			"warnings", len(warnings))
	}
	return Result{Chunks: chunks, SanitizationWarnings: warnings}
}

// stripControl removes control characters other than newline and tab,
// returning the cleaned string and the count removed.
func stripControl(s string) (string, int) {
	stripped := 0
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			stripped++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), stripped
}

// chunkLines splits text into trimmed non-empty lines.
func chunkLines(s string) []string {
	var chunks []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			chunks = append(chunks, line)
		}
	}
	return chunks
}
