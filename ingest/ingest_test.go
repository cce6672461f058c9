package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIngest_SplitsNonEmptyLines(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest("User shall login\n\n  System shall log the attempt  \n")

	assert.Equal(t, []string{"User shall login", "System shall log the attempt"}, result.Chunks)
	assert.Empty(t, result.SanitizationWarnings)
}

func TestIngest_StripsControlCharacters(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest("User shall\x00 login\x07")

	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "User shall login", result.Chunks[0])
	require.Len(t, result.SanitizationWarnings, 1)
	assert.Contains(t, result.SanitizationWarnings[0], "2 control character(s)")
}

func TestIngest_KeepsNewlinesAndTabs(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest("first\tline\nsecond line")

	assert.Len(t, result.Chunks, 2)
	assert.Empty(t, result.SanitizationWarnings)
}

func TestIngest_RepairsInvalidUTF8(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest("User shall login\xff")

	require.Len(t, result.Chunks, 1)
	assert.Contains(t, result.SanitizationWarnings, "invalid UTF-8 sequences replaced")
}

func TestIngest_TruncatesOversizedInput(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest(strings.Repeat("a", MaxTextLength+10))

	require.Len(t, result.Chunks, 1)
	assert.Len(t, result.Chunks[0], MaxTextLength)
	require.NotEmpty(t, result.SanitizationWarnings)
	assert.Contains(t, result.SanitizationWarnings[0], "truncated")
}

func TestIngest_EmptyInput(t *testing.T) {
	s := NewService(zap.NewNop().Sugar())

	result := s.Ingest("   \n \t \n")

	assert.Empty(t, result.Chunks)
	assert.Contains(t, result.SanitizationWarnings, "no requirement text found after sanitization")
}
