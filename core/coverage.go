package core

// Dimension is a named test-coverage category. Each requirement derives a
// required dimension set from applicability rules; every generated test
// case satisfies exactly one dimension.
type Dimension string

const (
	DimFunctional  Dimension = "Functional"
	DimNegative    Dimension = "Negative"
	DimBoundary    Dimension = "Boundary"
	DimEdge        Dimension = "Edge"
	DimPerformance Dimension = "Performance"
	DimSecurity    Dimension = "Security"
	DimConcurrency Dimension = "Concurrency"
	DimFailure     Dimension = "Failure"
	DimIntegration Dimension = "Integration"
)

// AllDimensions lists every dimension in the deterministic order used for
// template instantiation and gap reporting.
var AllDimensions = []Dimension{
	DimFunctional,
	DimNegative,
	DimBoundary,
	DimEdge,
	DimPerformance,
	DimSecurity,
	DimConcurrency,
	DimFailure,
	DimIntegration,
}

// CoverageResult summarizes how well the generated test cases cover the
// required dimensions of a requirement batch. Percentages are integers in
// [0,100]; both per-requirement and overall values round down so that
// coverage is never overstated.
type CoverageResult struct {
	RequirementCoverage map[string]int `json:"requirement_coverage"`
	OverallCoverage     int            `json:"overall_coverage"`
	GapsDetected        []string       `json:"gaps_detected"`
	DimensionCoverage   map[string]int `json:"dimension_coverage"`
}

// NewCoverageResult returns an empty result with initialized maps so that
// callers never index into a nil map.
func NewCoverageResult() CoverageResult {
	return CoverageResult{
		RequirementCoverage: make(map[string]int),
		GapsDetected:        []string{},
		DimensionCoverage:   make(map[string]int),
	}
}
