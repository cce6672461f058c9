package core

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

// TestStep is one ordered step of a generated test case. StepNumber is
// 1-based and strictly increasing within a test case.
type TestStep struct {
	StepNumber           int     `json:"step_number"`
	Action               string  `json:"action"`
	ExpectedIntermediate *string `json:"expected_intermediate"`
}

// GeneratedTestCase is one templated test case produced for a single
// requirement and test-type dimension, with the explainability metadata
// (template ID, rules applied, confidence) that makes generation auditable.
type GeneratedTestCase struct {
	RequirementID   string         `json:"requirement_id"`
	TestType        string         `json:"test_type"`
	Title           string         `json:"title"`
	Preconditions   []string       `json:"preconditions"`
	Steps           []TestStep     `json:"steps"`
	TestData        map[string]any `json:"test_data"`
	ExpectedResult  string         `json:"expected_result"`
	Priority        string         `json:"priority"`
	TemplateID      string         `json:"template_id"`
	RulesApplied    []string       `json:"rules_applied"`
	Confidence      float64        `json:"confidence"`
	DeterminismSeed int64          `json:"determinism_seed"`
}

// TypeCode returns the 3-letter code for a test type, e.g. "POS" for
// Positive, "NEG" for Negative, "BOU" for Boundary.
func TypeCode(testType string) string {
	t := strings.ToUpper(testType)
	if len(t) > 3 {
		t = t[:3]
	}
	return t
}

// TestCaseID builds the external test case identifier for a
// (requirement, type code) pair: "TTC-" + requirement ID + "-" + type
// code + a disambiguator derived from both. The function is pure; the
// same pair always yields the same ID, and distinct type codes for one
// requirement always yield distinct IDs.
func TestCaseID(requirementID, typeCode string) string {
	h := fnv.New32a()
	h.Write([]byte(requirementID))
	h.Write([]byte(":"))
	h.Write([]byte(typeCode))
	return fmt.Sprintf("TTC-%s-%s-%04x", requirementID, typeCode, h.Sum32()&0xffff)
}

// Validate checks the hard format contracts every generated test case
// must satisfy: a title containing the "when"/"expecting" markers, at
// least one step with strictly increasing numbering from 1, test data
// carrying either inputs or an API request, and a non-empty rules trail.
func (tc *GeneratedTestCase) Validate() error {
	title := strings.ToLower(tc.Title)
	if !strings.Contains(title, "when") || !strings.Contains(title, "expecting") {
		return fmt.Errorf("title %q missing required when/expecting markers", tc.Title)
	}
	if len(tc.Steps) == 0 {
		return errors.New("test case must have at least one step")
	}
	for i, step := range tc.Steps {
		if step.StepNumber != i+1 {
			return fmt.Errorf("step %d has number %d; steps must start at 1 and increase strictly", i, step.StepNumber)
		}
	}
	if _, ok := tc.TestData["inputs"]; !ok {
		if _, ok := tc.TestData["api_request"]; !ok {
			return errors.New("test data must contain inputs or api_request")
		}
	}
	if len(tc.RulesApplied) == 0 {
		return errors.New("rules_applied must name at least the template used")
	}
	return nil
}
