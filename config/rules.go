package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// RuleTables holds the keyword and pattern vocabularies that drive every
// rule-based stage of the pipeline. The tables are versioned configuration
// data, not code: they ship as embedded YAML so they can be reviewed,
// diffed, and tested independently of the stages that apply them.
type RuleTables struct {
	// Version identifies the rule table revision, stamped into reasoning
	// output for auditability.
	Version string `yaml:"version"`

	// ModalVerbs mark the actor/action boundary inside a clause.
	ModalVerbs []string `yaml:"modal_verbs"`

	// ConditionalMarkers introduce condition clauses.
	ConditionalMarkers []string `yaml:"conditional_markers"`

	// VagueTerms are qualifiers that flag ambiguity when not accompanied
	// by a measurable criterion.
	VagueTerms []string `yaml:"vague_terms"`

	// ActionVerbs are verbs recognized as heads of an action phrase.
	ActionVerbs []string `yaml:"action_verbs"`

	// DimensionKeywords maps a requirement class name to the keywords
	// that score one point each for that class.
	DimensionKeywords map[string][]string `yaml:"dimension_keywords"`

	// DimensionPatterns maps a requirement class name to regex patterns
	// that score two points each; patterns catch structures keywords
	// cannot, such as "100 milliseconds" or "POST /users".
	DimensionPatterns map[string][]string `yaml:"dimension_patterns"`

	// PriorityHighTerms force a High priority hint (data loss,
	// irreversibility, credentials).
	PriorityHighTerms []string `yaml:"priority_high_terms"`

	// PriorityLowTerms allow a Low priority hint for cosmetic or
	// informational requirements.
	PriorityLowTerms []string `yaml:"priority_low_terms"`

	// SharedResourceTerms imply a contestable shared resource and trigger
	// the Concurrency coverage dimension.
	SharedResourceTerms []string `yaml:"shared_resource_terms"`

	// SecurityFlowTerms mark payment/auth/credential-bearing flows that
	// require Security and Failure coverage.
	SecurityFlowTerms []string `yaml:"security_flow_terms"`

	// PerformanceTerms trigger the Performance coverage dimension.
	PerformanceTerms []string `yaml:"performance_terms"`

	// BoundaryRangeTerms combined with a number in the text trigger the
	// Boundary coverage dimension.
	BoundaryRangeTerms []string `yaml:"boundary_range_terms"`

	// ConcurrencyTerms are explicit concurrency keywords for coverage.
	ConcurrencyTerms []string `yaml:"concurrency_terms"`
}

// LoadRules decodes the embedded default rule tables.
func LoadRules() (*RuleTables, error) {
	return ParseRules(defaultRulesYAML)
}

// ParseRules decodes rule tables from YAML and validates them.
func ParseRules(data []byte) (*RuleTables, error) {
	var rt RuleTables
	if err := yaml.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("unable to decode rule tables: %w", err)
	}
	if err := rt.Validate(); err != nil {
		return nil, err
	}
	return &rt, nil
}

// MustLoadRules loads the embedded tables or panics. The embedded tables
// are covered by tests, so a failure here is a build defect.
func MustLoadRules() *RuleTables {
	rt, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return rt
}

// Validate checks that the tables carry everything the pipeline needs.
func (rt *RuleTables) Validate() error {
	if rt.Version == "" {
		return fmt.Errorf("rule tables must declare a version")
	}
	if len(rt.ModalVerbs) == 0 {
		return fmt.Errorf("rule tables must define modal verbs")
	}
	if len(rt.ConditionalMarkers) == 0 {
		return fmt.Errorf("rule tables must define conditional markers")
	}
	if len(rt.VagueTerms) == 0 {
		return fmt.Errorf("rule tables must define vague terms")
	}
	if len(rt.ActionVerbs) == 0 {
		return fmt.Errorf("rule tables must define action verbs")
	}
	if len(rt.DimensionKeywords) == 0 {
		return fmt.Errorf("rule tables must define dimension keywords")
	}
	return nil
}
