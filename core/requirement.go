package core

import (
	"errors"
	"fmt"
)

// AmbiguityIssue describes a single ambiguity finding made during
// normalization, such as a vague qualifier without a measurable criterion.
type AmbiguityIssue struct {
	Description string `json:"description"`
}

// Provenance records how a normalized requirement was derived from its
// source text. TransformationSteps lists every transformation applied,
// in application order, and is never empty for a normalized requirement.
type Provenance struct {
	RequirementID       string   `json:"requirement_id"`
	OriginalText        string   `json:"original_text"`
	TransformationSteps []string `json:"transformation_steps"`
	Confidence          float64  `json:"confidence"`
}

// NormalizedRequirement is a single atomic Actor-Action-Conditions-Outcome
// statement extracted from raw requirement text. Actor and Action are
// always non-empty after normalization; a missing actor or action in the
// source is reported as an ambiguity issue, with a fallback value filled in.
type NormalizedRequirement struct {
	OriginalText        string           `json:"original_text"`
	Actor               string           `json:"actor"`
	Action              string           `json:"action"`
	Conditions          []string         `json:"conditions"`
	ExpectedOutcome     string           `json:"expected_outcome"`
	IsAmbiguous         bool             `json:"is_ambiguous"`
	AmbiguityIssues     []AmbiguityIssue `json:"ambiguity_issues"`
	ClarifyingQuestions []string         `json:"clarifying_questions"`
	Confidence          float64          `json:"confidence"`
	Provenance          Provenance       `json:"provenance"`
}

// RequirementID returns the stable identifier assigned during normalization.
func (r *NormalizedRequirement) RequirementID() string {
	return r.Provenance.RequirementID
}

// Validate checks the invariants that every normalized requirement must
// satisfy before it enters downstream stages.
func (r *NormalizedRequirement) Validate() error {
	if r.Provenance.RequirementID == "" {
		return errors.New("requirement ID is required")
	}
	if r.Actor == "" {
		return errors.New("actor must be non-empty after normalization")
	}
	if r.Action == "" {
		return errors.New("action must be non-empty after normalization")
	}
	if len(r.Provenance.TransformationSteps) == 0 {
		return errors.New("provenance must record at least one transformation step")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", r.Confidence)
	}
	if r.IsAmbiguous && len(r.AmbiguityIssues) == 0 && len(r.ClarifyingQuestions) == 0 {
		return errors.New("ambiguous requirement must carry at least one issue or clarifying question")
	}
	return nil
}

// AmbiguityInfo is the ambiguity summary handed to the generator for
// requirements flagged during normalization.
type AmbiguityInfo struct {
	IsAmbiguous         bool     `json:"is_ambiguous"`
	Issues              []string `json:"issues"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
}

// AmbiguitySummary collapses a requirement's ambiguity findings into the
// shape the generator and report writers consume. Returns nil when the
// requirement is not ambiguous.
func (r *NormalizedRequirement) AmbiguitySummary() *AmbiguityInfo {
	if !r.IsAmbiguous {
		return nil
	}
	issues := make([]string, 0, len(r.AmbiguityIssues))
	for _, iss := range r.AmbiguityIssues {
		issues = append(issues, iss.Description)
	}
	return &AmbiguityInfo{
		IsAmbiguous:         true,
		Issues:              issues,
		ClarifyingQuestions: r.ClarifyingQuestions,
	}
}

// RequirementRecord is the per-requirement entry in the batch output,
// pairing the normalized form with its classification and ambiguity data.
// Field names are part of the serialized report contract.
type RequirementRecord struct {
	RequirementID  string                `json:"requirement_id"`
	SourceText     string                `json:"source_text"`
	Normalized     NormalizedRequirement `json:"normalized"`
	Classification []string              `json:"classification"`
	PriorityHint   string                `json:"priority_hint"`
	Ambiguity      AmbiguityInfo         `json:"ambiguity"`
	Provenance     Provenance            `json:"provenance"`
}
