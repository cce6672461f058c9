package coverage

import (
	"tcgen/config"
	"tcgen/core"
	"tcgen/util"
)

// Checker derives the required test dimension set for a requirement from
// its text, classification, and normalized data. The generator reuses the
// same rules to decide which test cases to instantiate, so coverage and
// generation can never disagree about what is required.
type Checker struct {
	rules *config.RuleTables
}

// NewChecker creates a Checker over the given rule tables.
func NewChecker(rules *config.RuleTables) *Checker {
	return &Checker{rules: rules}
}

// RequiredDimensions applies the applicability rules:
//
//   - Functional and Negative are always required.
//   - Boundary when the text carries a measurable numeric input range.
//   - Edge when the normalized requirement has any conditions.
//   - Performance and Failure for NFR or performance-keyword requirements.
//   - Security and Failure for payment/auth/credential-bearing flows.
//   - Concurrency for shared contestable resources or explicit
//     concurrency keywords.
//
// The result is returned in the deterministic core.AllDimensions order.
func (c *Checker) RequiredDimensions(text string, types []string, conditions []string) []core.Dimension {
	required := map[core.Dimension]bool{
		core.DimFunctional: true,
		core.DimNegative:   true,
	}

	if util.HasDigit(text) {
		if _, ok := util.ContainsAnyWord(text, c.rules.BoundaryRangeTerms); ok {
			required[core.DimBoundary] = true
		}
	}
	if len(conditions) > 0 {
		required[core.DimEdge] = true
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	if typeSet[string(core.ClassNFR)] || typeSet[string(core.ClassPerformance)] {
		required[core.DimPerformance] = true
		required[core.DimFailure] = true
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.PerformanceTerms); ok {
		required[core.DimPerformance] = true
		required[core.DimFailure] = true
	}

	if typeSet[string(core.ClassSecurity)] {
		required[core.DimSecurity] = true
		required[core.DimFailure] = true
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.SecurityFlowTerms); ok {
		required[core.DimSecurity] = true
		required[core.DimFailure] = true
	}

	if typeSet[string(core.ClassConcurrency)] {
		required[core.DimConcurrency] = true
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.ConcurrencyTerms); ok {
		required[core.DimConcurrency] = true
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.SharedResourceTerms); ok {
		required[core.DimConcurrency] = true
	}

	out := make([]core.Dimension, 0, len(required))
	for _, d := range core.AllDimensions {
		if required[d] {
			out = append(out, d)
		}
	}
	return out
}
