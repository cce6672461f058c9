package classify

import (
	"testing"

	"tcgen/config"
	"tcgen/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	rules, err := config.LoadRules()
	require.NoError(t, err)
	return New(rules, 1, zap.NewNop().Sugar())
}

func TestClassifier_FunctionalDefault(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("User shall wibble the frobnicator", nil)

	assert.Equal(t, core.ClassFunctional, cls.PrimaryClass)
	assert.Empty(t, cls.SecondaryClasses)
	assert.Equal(t, core.PriorityMedium, cls.PriorityHint)
	assert.Contains(t, cls.Reasoning, "default")
	assert.NoError(t, cls.Validate())
}

func TestClassifier_SecurityPrimary(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall encrypt sensitive data with password protection", nil)

	assert.Equal(t, core.ClassSecurity, cls.PrimaryClass)
	assert.Equal(t, core.PriorityHigh, cls.PriorityHint)
	assert.Contains(t, cls.Reasoning, "encrypt")
}

func TestClassifier_PerformancePatternOutranksAPIKeyword(t *testing.T) {
	c := newTestClassifier(t)

	// Time-unit pattern plus "respond within" beats the single "api"
	// keyword.
	cls := c.Classify("API shall respond within 100 milliseconds", nil)

	assert.Equal(t, core.ClassPerformance, cls.PrimaryClass)
	assert.Contains(t, cls.SecondaryClasses, core.ClassAPIBehavior)
	assert.Contains(t, cls.SecondaryClasses, core.ClassFunctional)
}

func TestClassifier_ValidationPrimary(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall validate email format", nil)

	assert.Equal(t, core.ClassValidation, cls.PrimaryClass)
	assert.Equal(t, core.PriorityMedium, cls.PriorityHint)
}

func TestClassifier_APIBehaviorPrimary(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("The api shall expose GET /users and return a JSON payload", nil)

	assert.Equal(t, core.ClassAPIBehavior, cls.PrimaryClass)
	assert.Contains(t, cls.Reasoning, "GET /users")
}

func TestClassifier_NFRPrimary(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall maintain 99.9% uptime", nil)

	assert.Equal(t, core.ClassNFR, cls.PrimaryClass)
}

func TestClassifier_TieBreaksByFixedOrder(t *testing.T) {
	c := newTestClassifier(t)

	// Concurrency and baseline Functional both score 1; the fixed
	// dimension order makes Concurrency win every run.
	cls := c.Classify("System shall handle concurrent booking requests", nil)

	assert.Equal(t, core.ClassConcurrency, cls.PrimaryClass)
	assert.Contains(t, cls.SecondaryClasses, core.ClassFunctional)
}

func TestClassifier_UnauthorizedAccessIsHighPriority(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall prevent unauthorized access", nil)

	assert.Equal(t, core.ClassSecurity, cls.PrimaryClass)
	assert.Equal(t, core.PriorityHigh, cls.PriorityHint)
}

func TestClassifier_PriorityHighFromTerms(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall process payment refunds", nil)

	assert.Equal(t, core.ClassFunctional, cls.PrimaryClass)
	assert.Equal(t, core.PriorityHigh, cls.PriorityHint)
}

func TestClassifier_PriorityLowFromCosmeticTerms(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("System shall show the tooltip in a readable font", nil)

	assert.Equal(t, core.PriorityLow, cls.PriorityHint)
}

func TestClassifier_ConfidenceBounds(t *testing.T) {
	c := newTestClassifier(t)

	texts := []string{
		"User shall login with valid credentials",
		"System shall encrypt sensitive data with password protection and audit access",
		"API shall respond within 100 milliseconds",
		"nothing recognizable here",
	}
	for _, text := range texts {
		cls := c.Classify(text, nil)
		primary := cls.ConfidenceScores[cls.PrimaryClass]
		assert.GreaterOrEqual(t, primary, 0.7, "primary confidence for %q", text)
		assert.LessOrEqual(t, primary, 1.0, "primary confidence for %q", text)
		for class, score := range cls.ConfidenceScores {
			if class == cls.PrimaryClass {
				continue
			}
			assert.Less(t, score, 0.7, "secondary confidence for %q / %s", text, class)
		}
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := newTestClassifier(t)

	text := "API shall validate the payload and respond within 2 seconds"
	first := c.Classify(text, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text, nil))
	}
}

func TestClassifier_ReasoningCitesRuleVersion(t *testing.T) {
	c := newTestClassifier(t)

	cls := c.Classify("User shall login", nil)

	assert.Contains(t, cls.Reasoning, "Primary classification:")
	assert.Contains(t, cls.Reasoning, "priority hint")
	assert.Contains(t, cls.Reasoning, "rule tables v2026.02")
}
