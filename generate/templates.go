package generate

import (
	"fmt"
	"regexp"
	"strings"

	"tcgen/core"
)

// RequirementShape selects the template variant for a dimension. API
// behavior requirements get api_request test data and request-oriented
// steps; everything else uses the general variant.
type RequirementShape string

const (
	ShapeGeneral RequirementShape = "GEN"
	ShapeAPI     RequirementShape = "API"
)

// templateContext carries the slots a template can reference.
type templateContext struct {
	Actor     string
	Action    string
	Condition string
	Outcome   string
	Shape     RequirementShape
	Method    string
	Path      string
}

// template instantiates one test case for a (dimension, shape) pair.
// Every title produced here contains the literal "when" and "expecting"
// markers; that format is a hard contract checked by Validate.
type template struct {
	Dimension core.Dimension
	TestType  string
	title     func(templateContext) string
	steps     func(templateContext) []core.TestStep
	expected  func(templateContext) string
}

// ID returns the template identifier recorded in explainability output.
func (t *template) ID(shape RequirementShape) string {
	return fmt.Sprintf("TPL-%s-%s-001", core.TypeCode(t.TestType), shape)
}

func step(n int, action string) core.TestStep {
	return core.TestStep{StepNumber: n, Action: action}
}

func stepExpect(n int, action, intermediate string) core.TestStep {
	return core.TestStep{StepNumber: n, Action: action, ExpectedIntermediate: &intermediate}
}

// templates is the fixed template table, keyed by dimension. Order of
// instantiation follows core.AllDimensions so output is deterministic.
var templates = map[core.Dimension]*template{
	core.DimFunctional: {
		Dimension: core.DimFunctional,
		TestType:  "Positive",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s can %s when %s, expecting %s", c.Actor, c.Action, c.Condition, c.Outcome)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, fmt.Sprintf("Ensure %s", c.Condition)),
				stepExpect(2, fmt.Sprintf("As %s, %s", c.Actor, c.Action), "Action is accepted"),
				step(3, "Observe the system response"),
			}
		},
		expected: func(c templateContext) string { return c.Outcome },
	},
	core.DimNegative: {
		Dimension: core.DimNegative,
		TestType:  "Negative",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s is rejected when inputs are invalid, expecting a clear error response", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Prepare invalid or missing input values"),
				stepExpect(2, fmt.Sprintf("As %s, attempt to %s with the invalid inputs", c.Actor, c.Action), "Operation is not applied"),
				step(3, "Verify the error message identifies the invalid input"),
			}
		},
		expected: func(c templateContext) string {
			return fmt.Sprintf("Request is rejected with an actionable error; '%s' does not occur", c.Outcome)
		},
	},
	core.DimBoundary: {
		Dimension: core.DimBoundary,
		TestType:  "Boundary",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s behaves correctly when inputs are at boundary limits, expecting limits enforced without error", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Identify the minimum and maximum acceptable values from the requirement"),
				stepExpect(2, fmt.Sprintf("As %s, %s using the exact minimum value", c.Actor, c.Action), "Accepted at the lower bound"),
				stepExpect(3, fmt.Sprintf("As %s, %s using the exact maximum value", c.Actor, c.Action), "Accepted at the upper bound"),
				step(4, "Repeat one unit outside each bound and confirm rejection"),
			}
		},
		expected: func(c templateContext) string {
			return "Values at the bounds are accepted; values outside the bounds are rejected"
		},
	},
	core.DimEdge: {
		Dimension: core.DimEdge,
		TestType:  "Edge",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s when the condition '%s' is at its edge, expecting defined behavior", c.Action, c.Condition)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, fmt.Sprintf("Arrange the state so that '%s' barely holds", c.Condition)),
				stepExpect(2, fmt.Sprintf("As %s, %s", c.Actor, c.Action), "Behavior matches the conditional rule"),
				step(3, fmt.Sprintf("Arrange the state so that '%s' just fails and repeat", c.Condition)),
			}
		},
		expected: func(c templateContext) string {
			return fmt.Sprintf("Behavior is well-defined on both sides of the condition '%s'", c.Condition)
		},
	},
	core.DimPerformance: {
		Dimension: core.DimPerformance,
		TestType:  "Performance",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s meets its timing target when under expected load, expecting completion within the specified limit", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Apply the expected production load profile"),
				stepExpect(2, fmt.Sprintf("Measure the time for %s to complete", c.Action), "Timing is captured per invocation"),
				step(3, "Compare measured timings against the specified limit"),
			}
		},
		expected: func(c templateContext) string {
			return fmt.Sprintf("'%s' completes within the specified time limit under expected load", c.Action)
		},
	},
	core.DimSecurity: {
		Dimension: core.DimSecurity,
		TestType:  "Security",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s is denied when an unauthorized actor attempts it, expecting access denied and an audit trail", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Authenticate as an actor without the required permission"),
				stepExpect(2, fmt.Sprintf("Attempt to %s", c.Action), "Access is denied"),
				step(3, "Verify no partial state change occurred and the attempt was logged"),
			}
		},
		expected: func(c templateContext) string {
			return "Unauthorized attempts are denied, leave no state change, and are audit-logged"
		},
	},
	core.DimConcurrency: {
		Dimension: core.DimConcurrency,
		TestType:  "Concurrency",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s stays consistent when multiple actors act simultaneously, expecting no double allocation or lost update", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, fmt.Sprintf("Start two sessions as independent instances of %s", c.Actor)),
				stepExpect(2, fmt.Sprintf("From both sessions, %s targeting the same resource at the same time", c.Action), "At most one attempt succeeds"),
				step(3, "Verify the final state reflects exactly one successful operation"),
			}
		},
		expected: func(c templateContext) string {
			return "Concurrent attempts resolve deterministically with no double allocation or corruption"
		},
	},
	core.DimFailure: {
		Dimension: core.DimFailure,
		TestType:  "Failure",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s degrades gracefully when a dependency fails, expecting a recoverable error state", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Simulate failure of a required downstream dependency"),
				stepExpect(2, fmt.Sprintf("As %s, attempt to %s", c.Actor, c.Action), "A controlled error is returned"),
				step(3, "Restore the dependency and verify normal operation resumes"),
			}
		},
		expected: func(c templateContext) string {
			return "The failure is contained, reported clearly, and recoverable without data loss"
		},
	},
	core.DimIntegration: {
		Dimension: core.DimIntegration,
		TestType:  "Integration",
		title: func(c templateContext) string {
			return fmt.Sprintf("Verify %s works end to end when collaborating components are live, expecting consistent results across boundaries", c.Action)
		},
		steps: func(c templateContext) []core.TestStep {
			return []core.TestStep{
				step(1, "Deploy the collaborating components in a shared environment"),
				stepExpect(2, fmt.Sprintf("As %s, %s through the full stack", c.Actor, c.Action), "Each component observes the operation"),
				step(3, "Verify the end state is consistent across all components"),
			}
		},
		expected: func(c templateContext) string {
			return fmt.Sprintf("'%s' produces consistent results across all integrated components", c.Action)
		},
	},
}

var apiRequestRe = regexp.MustCompile(`\b(GET|POST|PUT|DELETE|PATCH)\s+(/\S*)`)

// detectAPIRequest pulls an explicit HTTP verb and path out of the
// requirement text, defaulting to a POST against a generic resource path.
func detectAPIRequest(text string) (method, path string) {
	if m := apiRequestRe.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	return "POST", "/api/resource"
}

// buildTestData produces the test_data payload: api_request for API
// behavior requirements, inputs for everything else.
func buildTestData(ctx templateContext, dim core.Dimension) map[string]any {
	if ctx.Shape == ShapeAPI {
		payload := map[string]any{"scenario": scenarioFor(dim)}
		return map[string]any{
			"api_request": map[string]any{
				"method":  ctx.Method,
				"path":    ctx.Path,
				"payload": payload,
			},
		}
	}
	return map[string]any{
		"inputs": map[string]any{
			"actor":    ctx.Actor,
			"scenario": scenarioFor(dim),
		},
	}
}

func scenarioFor(dim core.Dimension) string {
	switch dim {
	case core.DimNegative:
		return "invalid"
	case core.DimBoundary:
		return "boundary"
	case core.DimEdge:
		return "edge"
	case core.DimSecurity:
		return "unauthorized"
	case core.DimConcurrency:
		return "concurrent"
	case core.DimFailure:
		return "dependency-failure"
	case core.DimPerformance:
		return "load"
	default:
		return "valid"
	}
}

// firstOr returns the first condition or the fallback phrase used to fill
// the "when" slot of a title.
func firstOr(conditions []string, fallback string) string {
	if len(conditions) > 0 {
		return strings.TrimSpace(conditions[0])
	}
	return fallback
}
