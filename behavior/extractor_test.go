package behavior

import (
	"testing"

	"tcgen/config"
	"tcgen/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	rules, err := config.LoadRules()
	require.NoError(t, err)
	return New(rules, zap.NewNop().Sugar())
}

func norm(actor, action string, conditions ...string) *core.NormalizedRequirement {
	return &core.NormalizedRequirement{
		OriginalText:    actor + " " + action,
		Actor:           actor,
		Action:          action,
		Conditions:      conditions,
		ExpectedOutcome: "Successful completion of '" + action + "'",
		Confidence:      1.0,
	}
}

func TestExtractor_SingleBehavior(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0001", norm("User", "login with valid credentials"), "Functional")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.Issues)

	b := result.Behaviors[0]
	assert.Equal(t, "REQ-20260830-0001B01", b.BehaviorID)
	assert.Equal(t, "User", b.Actor)
	assert.Equal(t, "login", b.Action)
	assert.Equal(t, "valid credentials", b.ObjectName)
	assert.Nil(t, b.Condition)
}

func TestExtractor_CompoundActionSplit(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0002", norm("System", "authenticate the user and redirect to dashboard"), "Functional")

	require.Len(t, result.Behaviors, 2)
	assert.Equal(t, 0.9, result.Confidence)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "compound action split into 2 behaviors")

	assert.Equal(t, "REQ-20260830-0002B01", result.Behaviors[0].BehaviorID)
	assert.Equal(t, "REQ-20260830-0002B02", result.Behaviors[1].BehaviorID)
	assert.Equal(t, "authenticate", result.Behaviors[0].Action)
	assert.Equal(t, "user", result.Behaviors[0].ObjectName)
	assert.Equal(t, "redirect", result.Behaviors[1].Action)
	assert.Equal(t, "dashboard", result.Behaviors[1].ObjectName)
}

func TestExtractor_ConjunctionWithoutVerbStaysWhole(t *testing.T) {
	e := newTestExtractor(t)

	// "and" followed by a noun is part of the object, not a second
	// behavior.
	result := e.Extract("REQ-20260830-0003", norm("System", "validate the format and length of input"), "Validation")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, "validate", result.Behaviors[0].Action)
	assert.Contains(t, result.Behaviors[0].ObjectName, "length")
}

func TestExtractor_ConditionsInherited(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0004",
		norm("User", "reserve a slot and pay the deposit", "the slot is free"), "Functional")

	require.Len(t, result.Behaviors, 2)
	for _, b := range result.Behaviors {
		require.NotNil(t, b.Condition)
		assert.Equal(t, "the slot is free", *b.Condition)
		assert.Contains(t, b.Description, "condition: the slot is free")
	}
}

func TestExtractor_MultipleConditionsJoined(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0005",
		norm("User", "submit the form", "the form is complete", "the session is active"), "Functional")

	require.Len(t, result.Behaviors, 1)
	require.NotNil(t, result.Behaviors[0].Condition)
	assert.Equal(t, "the form is complete; the session is active", *result.Behaviors[0].Condition)
}

func TestExtractor_MalformedDocumentFragment(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0006",
		norm("System", "(SPMS) 1 Product Overview Product Name"), "Functional")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, 0.5, result.Confidence)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "no recognizable verb phrase")

	b := result.Behaviors[0]
	assert.Equal(t, "REQ-20260830-0006B01", b.BehaviorID)
	assert.Equal(t, "(SPMS) 1 Product Overview Product Name", b.Action)
}

func TestExtractor_UnknownLowercaseVerbAccepted(t *testing.T) {
	e := newTestExtractor(t)

	// A verb outside the vocabulary still parses as long as the phrase
	// has no structural noise.
	result := e.Extract("REQ-20260830-0007", norm("System", "archive old records"), "Functional")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "archive", result.Behaviors[0].Action)
	assert.Equal(t, "old records", result.Behaviors[0].ObjectName)
}

func TestExtractor_EmptyActionFallback(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0008", norm("System", ""), "Functional")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, 0.5, result.Confidence)
	assert.NotEmpty(t, result.Issues)
	assert.Equal(t, "perform required behavior", result.Behaviors[0].Action)
}

func TestExtractor_DescriptionNamesActorAndPhrase(t *testing.T) {
	e := newTestExtractor(t)

	result := e.Extract("REQ-20260830-0009", norm("Admin", "delete the account"), "Functional")

	require.Len(t, result.Behaviors, 1)
	assert.Equal(t, "Admin delete the account", result.Behaviors[0].Description)
}
