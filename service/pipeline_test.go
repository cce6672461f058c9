package service

import (
	"strings"
	"testing"

	"tcgen/config"
	"tcgen/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	rules, err := config.LoadRules()
	require.NoError(t, err)
	p, err := NewPipeline(config.Default(), rules, zap.NewNop().Sugar())
	require.NoError(t, err)
	return p
}

func TestPipeline_RejectsEmptyText(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Process("")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = p.Process("   \n ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = p.ProcessBatch(nil)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestPipeline_EndToEndCompoundRequirement(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("User shall login with valid credentials and system shall authenticate the user")
	require.NoError(t, err)

	// The compound text splits into two requirements with distinct IDs.
	require.Len(t, output.NormalizedRequirements, 2)
	assert.NotEqual(t,
		output.NormalizedRequirements[0].RequirementID,
		output.NormalizedRequirements[1].RequirementID)

	actors := []string{
		output.NormalizedRequirements[0].Normalized.Actor,
		output.NormalizedRequirements[1].Normalized.Actor,
	}
	assert.Contains(t, actors, "User")
	assert.Contains(t, actors, "System")

	// Each requirement gets at least Positive and Negative cases.
	assert.GreaterOrEqual(t, len(output.TestCases), 4)

	// Every test case maps back to one of the two requirements.
	ids := map[string]bool{
		output.NormalizedRequirements[0].RequirementID: true,
		output.NormalizedRequirements[1].RequirementID: true,
	}
	for _, tc := range output.TestCases {
		assert.True(t, ids[tc.MappedRequirementID], "test case %s maps to unknown requirement", tc.TestCaseID)
		assert.True(t, strings.HasPrefix(tc.TestCaseID, "TTC-"))
		assert.NotEmpty(t, tc.Explainability.GenerationTemplateID)
		assert.NotEmpty(t, tc.Explainability.RulesApplied)
	}
}

func TestPipeline_SecurityFlowCoverage(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("User shall login with valid credentials")
	require.NoError(t, err)

	types := map[string]bool{}
	for _, tc := range output.TestCases {
		types[tc.TestType] = true
	}
	assert.True(t, types["Positive"])
	assert.True(t, types["Negative"])
	assert.True(t, types["Security"], "login flows require security tests")
	assert.True(t, types["Failure"])
}

func TestPipeline_FullCoverageWhenAllRequiredTypesGenerated(t *testing.T) {
	p := newTestPipeline(t)

	// Generation instantiates exactly the required dimension set, so
	// coverage for each requirement is always 100.
	output, err := p.Process("User shall view the dashboard")
	require.NoError(t, err)

	require.Len(t, output.NormalizedRequirements, 1)
	reqID := output.NormalizedRequirements[0].RequirementID
	assert.Equal(t, 100, output.Coverage.RequirementCoverage[reqID])
	assert.Equal(t, 100, output.Coverage.OverallCoverage)
	assert.Empty(t, output.Coverage.GapsDetected)
}

func TestPipeline_AmbiguousRequirementFlagged(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("The system shall be fast and secure")
	require.NoError(t, err)

	require.Len(t, output.NormalizedRequirements, 1)
	record := output.NormalizedRequirements[0]
	assert.True(t, record.Ambiguity.IsAmbiguous)
	assert.NotEmpty(t, record.Ambiguity.Issues)
	assert.NotEmpty(t, record.Ambiguity.ClarifyingQuestions)

	// Damped confidence propagates into every test case.
	for _, tc := range output.TestCases {
		assert.Less(t, tc.Explainability.Confidence, record.Normalized.Confidence)
	}
}

func TestPipeline_BatchAssignsUniqueIDs(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.ProcessBatch([]string{
		"User shall login with valid credentials",
		"System shall validate email format",
		"API shall respond within 100 milliseconds",
	})
	require.NoError(t, err)

	require.Len(t, output.NormalizedRequirements, 3)
	seen := map[string]bool{}
	for _, r := range output.NormalizedRequirements {
		assert.False(t, seen[r.RequirementID], "duplicate requirement ID %s", r.RequirementID)
		seen[r.RequirementID] = true
	}

	seenTC := map[string]bool{}
	for _, tc := range output.TestCases {
		assert.False(t, seenTC[tc.TestCaseID], "duplicate test case ID %s", tc.TestCaseID)
		seenTC[tc.TestCaseID] = true
	}
}

func TestPipeline_MultilineTextSplitsPerLine(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("User shall login with valid credentials\nSystem shall validate email format")
	require.NoError(t, err)

	assert.Len(t, output.NormalizedRequirements, 2)
}

func TestPipeline_AuditLogPopulated(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("User shall login\x00 with valid credentials")
	require.NoError(t, err)

	audit := output.AuditLog
	assert.NotEmpty(t, audit.GenerationTimestamp)
	assert.Equal(t, "rule-based-v1", audit.ModelReference)
	assert.Equal(t, "passed", audit.ValidationStatus)
	assert.Empty(t, audit.Errors)

	// The stripped control character shows up in the change history.
	require.GreaterOrEqual(t, len(audit.ChangeHistory), 2)
	var sawWarning bool
	for _, ch := range audit.ChangeHistory {
		assert.NotEmpty(t, ch.ID)
		assert.NotEmpty(t, ch.Timestamp)
		if strings.Contains(ch.Change, "Sanitization warning") {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}

func TestPipeline_DeterministicAcrossRuns(t *testing.T) {
	rules, err := config.LoadRules()
	require.NoError(t, err)

	text := "User shall reserve a slot when the slot is free"

	run := func() *core.BatchOutput {
		p, err := NewPipeline(config.Default(), rules, zap.NewNop().Sugar())
		require.NoError(t, err)
		out, err := p.Process(text)
		require.NoError(t, err)
		return out
	}

	first := run()
	second := run()

	// Everything except timestamps and audit UUIDs is identical.
	assert.Equal(t, first.NormalizedRequirements, second.NormalizedRequirements)
	assert.Equal(t, first.TestCases, second.TestCases)
	assert.Equal(t, first.Coverage, second.Coverage)
}

func TestPipeline_MalformedFragmentDegradesGracefully(t *testing.T) {
	p := newTestPipeline(t)

	output, err := p.Process("Software Product Management System (SPMS) 1 Product Overview Product Name")
	require.NoError(t, err)

	require.Len(t, output.NormalizedRequirements, 1)
	record := output.NormalizedRequirements[0]
	assert.Less(t, record.Normalized.Confidence, 1.0)
	assert.NotEmpty(t, output.TestCases, "even document fragments yield test cases")
}
