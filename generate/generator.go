// Package generate instantiates concrete test cases from the fixed
// template table, one per required test dimension. Generation is fully
// deterministic: identical inputs and configuration always produce
// identical output, and the determinism seed is carried through from
// configuration rather than generated.
package generate

import (
	"fmt"

	"tcgen/config"
	"tcgen/core"
	"tcgen/coverage"

	"go.uber.org/zap"
)

// ambiguityDamping is applied to test case confidence when the source
// requirement was flagged ambiguous.
const ambiguityDamping = 0.9

// Generator builds test cases for a normalized requirement using the
// coverage applicability rules to decide which dimensions to cover.
type Generator struct {
	cfg     *config.Config
	checker *coverage.Checker
	logger  *zap.SugaredLogger
}

// New creates a Generator. The checker must be the same rule set the
// coverage calculator uses so generation and coverage agree.
func New(cfg *config.Config, rules *config.RuleTables, logger *zap.SugaredLogger) *Generator {
	return &Generator{
		cfg:     cfg,
		checker: coverage.NewChecker(rules),
		logger:  logger,
	}
}

// Generate produces one test case per required dimension for the given
// normalized requirement. ambiguity may be nil; when present it lowers
// test case confidence and records an explainability rule entry.
func (g *Generator) Generate(norm *core.NormalizedRequirement, cls *core.Classification, ambiguity *core.AmbiguityInfo) []core.GeneratedTestCase {
	required := g.checker.RequiredDimensions(norm.OriginalText, cls.Classes(), norm.Conditions)

	shape := ShapeGeneral
	if cls.HasClass(core.ClassAPIBehavior) {
		shape = ShapeAPI
	}
	method, path := detectAPIRequest(norm.OriginalText)

	ctx := templateContext{
		Actor:     norm.Actor,
		Action:    norm.Action,
		Condition: firstOr(norm.Conditions, "preconditions are satisfied"),
		Outcome:   norm.ExpectedOutcome,
		Shape:     shape,
		Method:    method,
		Path:      path,
	}

	confidence := norm.Confidence
	if ambiguity != nil && ambiguity.IsAmbiguous {
		confidence *= ambiguityDamping
	}

	cases := make([]core.GeneratedTestCase, 0, len(required))
	for _, dim := range required {
		tmpl, ok := templates[dim]
		if !ok {
			continue
		}
		tc := g.instantiate(tmpl, ctx, norm, cls, ambiguity, confidence)
		cases = append(cases, tc)
	}

	if g.logger != nil {
		g.logger.Debugw("generated test cases",
			"requirement_id", norm.RequirementID(),
			"dimensions", len(required),
			"cases", len(cases))
	}
	return cases
}

// instantiate fills one template for one requirement.
func (g *Generator) instantiate(tmpl *template, ctx templateContext, norm *core.NormalizedRequirement, cls *core.Classification, ambiguity *core.AmbiguityInfo, confidence float64) core.GeneratedTestCase {
	preconditions := []string{"System is available and in a known clean state"}
	for _, cond := range norm.Conditions {
		preconditions = append(preconditions, "Ensure: "+cond)
	}

	rules := []string{
		fmt.Sprintf("template:%s applied for %s dimension", tmpl.ID(ctx.Shape), tmpl.Dimension),
		"rule:title-format(when/expecting)",
		fmt.Sprintf("rule:dimension-applicability:%s", tmpl.Dimension),
	}
	if ambiguity != nil && ambiguity.IsAmbiguous {
		rules = append(rules, "rule:ambiguity-flagged(confidence damped)")
		preconditions = append(preconditions, "Resolve open clarifying questions before execution")
	}

	return core.GeneratedTestCase{
		RequirementID:   norm.RequirementID(),
		TestType:        tmpl.TestType,
		Title:           tmpl.title(ctx),
		Preconditions:   preconditions,
		Steps:           tmpl.steps(ctx),
		TestData:        buildTestData(ctx, tmpl.Dimension),
		ExpectedResult:  tmpl.expected(ctx),
		Priority:        MapPriority(cls.PriorityHint, core.TypeCode(tmpl.TestType)),
		TemplateID:      tmpl.ID(ctx.Shape),
		RulesApplied:    rules,
		Confidence:      confidence,
		DeterminismSeed: g.cfg.Generator.DeterminismSeed,
	}
}

// TestCaseID builds the external identifier for a (requirement, type
// code) pair. Pure and collision-resistant per pair within a run.
func (g *Generator) TestCaseID(requirementID, typeCode string) string {
	return core.TestCaseID(requirementID, typeCode)
}

// MapPriority adjusts the classification priority hint by test type:
// Security and Negative test cases are never downgraded below Medium,
// whatever the requirement's own hint says.
func MapPriority(hint, typeCode string) string {
	if !core.ValidPriority(hint) {
		hint = core.PriorityMedium
	}
	if hint == core.PriorityLow && (typeCode == "SEC" || typeCode == "NEG") {
		return core.PriorityMedium
	}
	return hint
}
