// Package coverage scores how many required test dimensions each
// requirement satisfies and reports the gaps. Percentages always round
// down so coverage is never overstated.
package coverage

import (
	"fmt"

	"tcgen/config"
	"tcgen/core"

	"go.uber.org/zap"
)

// typeAliases maps generated test-type names onto the coverage dimension
// they satisfy. Positive test cases cover the Functional dimension; every
// other type matches its dimension by name.
var typeAliases = map[string]core.Dimension{
	"Positive": core.DimFunctional,
}

// Calculator computes per-requirement and overall coverage.
type Calculator struct {
	checker *Checker
	logger  *zap.SugaredLogger
}

// NewCalculator creates a Calculator sharing the applicability rules.
func NewCalculator(rules *config.RuleTables, logger *zap.SugaredLogger) *Calculator {
	return &Calculator{checker: NewChecker(rules), logger: logger}
}

// Checker exposes the applicability rules so the generator can reuse
// them.
func (c *Calculator) Checker() *Checker {
	return c.checker
}

// Calculate scores every requirement. Per requirement, coverage is
// 100 * (distinct test-type dimensions present) / (required dimension
// count), rounded down by integer division and capped at 100. Overall
// coverage is the mean of per-requirement values, again rounded down.
// Zero test cases yield zero coverage everywhere, never a division
// error; a zero-size required set cannot occur because Functional and
// Negative are unconditional.
func (c *Calculator) Calculate(testCases []core.GeneratedTestCase, requirements []core.RequirementRecord, behaviors []core.AtomicBehavior) core.CoverageResult {
	result := core.NewCoverageResult()

	// Distinct dimensions present per requirement, plus batch-wide type
	// counts.
	presentByReq := make(map[string]map[core.Dimension]bool)
	for _, tc := range testCases {
		result.DimensionCoverage[tc.TestType]++
		dim := dimensionForType(tc.TestType)
		if presentByReq[tc.RequirementID] == nil {
			presentByReq[tc.RequirementID] = make(map[core.Dimension]bool)
		}
		presentByReq[tc.RequirementID][dim] = true
	}

	// Behaviors contribute condition evidence for the Edge rule when the
	// normalized record carries none.
	conditionsByReq := make(map[string][]string)
	for _, b := range behaviors {
		if b.Condition != nil && *b.Condition != "" {
			conditionsByReq[b.RequirementID] = append(conditionsByReq[b.RequirementID], *b.Condition)
		}
	}

	total := 0
	for _, req := range requirements {
		conditions := req.Normalized.Conditions
		if len(conditions) == 0 {
			conditions = conditionsByReq[req.RequirementID]
		}
		required := c.checker.RequiredDimensions(req.SourceText, req.Classification, conditions)

		present := presentByReq[req.RequirementID]
		pct := 0
		if len(required) > 0 {
			pct = 100 * len(present) / len(required)
			if pct > 100 {
				pct = 100
			}
		}
		result.RequirementCoverage[req.RequirementID] = pct
		total += pct

		for _, dim := range required {
			if !present[dim] {
				result.GapsDetected = append(result.GapsDetected,
					fmt.Sprintf("%s: Missing %s tests", req.RequirementID, dim))
			}
		}
	}

	if len(requirements) > 0 {
		result.OverallCoverage = total / len(requirements)
	}

	if c.logger != nil {
		c.logger.Debugw("coverage calculated",
			"requirements", len(requirements),
			"test_cases", len(testCases),
			"overall", result.OverallCoverage,
			"gaps", len(result.GapsDetected))
	}
	return result
}

// dimensionForType resolves a test-type name to the dimension it covers.
func dimensionForType(testType string) core.Dimension {
	if dim, ok := typeAliases[testType]; ok {
		return dim
	}
	return core.Dimension(testType)
}
