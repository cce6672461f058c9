package core

import "time"

// ExplainabilityBlock carries the audit metadata attached to every test
// case record in the batch output.
type ExplainabilityBlock struct {
	GenerationTemplateID string   `json:"generation_template_id"`
	RulesApplied         []string `json:"rules_applied"`
	Confidence           float64  `json:"confidence"`
}

// AutomationFeasibility is the automation assessment attached to each
// test case record.
type AutomationFeasibility struct {
	Feasible        bool   `json:"feasible"`
	Notes           string `json:"notes"`
	EstimatedEffort string `json:"estimated_effort"`
}

// TestCaseRecord is the serialized form of a generated test case in the
// batch output, with the external test case ID and explainability block.
// Field names are part of the stable report contract.
type TestCaseRecord struct {
	TestCaseID            string                `json:"test_case_id"`
	Title                 string                `json:"title"`
	MappedRequirementID   string                `json:"mapped_requirement_id"`
	TestType              string                `json:"test_type"`
	Preconditions         []string              `json:"preconditions"`
	Steps                 []TestStep            `json:"steps"`
	TestData              map[string]any        `json:"test_data"`
	ExpectedResult        string                `json:"expected_result"`
	Priority              string                `json:"priority"`
	AutomationFeasibility AutomationFeasibility `json:"automation_feasibility"`
	DeterminismSeed       int64                 `json:"determinism_seed"`
	Explainability        ExplainabilityBlock   `json:"explainability"`
}

// ChangeRecord is one entry in the audit log's change history.
type ChangeRecord struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Actor     string  `json:"actor"`
	Change    string  `json:"change"`
	Diff      *string `json:"diff"`
}

// AuditLog records how and when a batch output was produced.
type AuditLog struct {
	GenerationTimestamp string         `json:"generation_timestamp"`
	GeneratorVersion    string         `json:"generator_version"`
	ModelReference      string         `json:"model_reference"`
	ValidationStatus    string         `json:"validation_status"`
	Errors              []string       `json:"errors"`
	ChangeHistory       []ChangeRecord `json:"change_history"`
}

// BatchOutput is the single structure handed to the report writers for
// one pipeline invocation. Field names and nesting are a stable contract
// and must not change.
type BatchOutput struct {
	NormalizedRequirements []RequirementRecord `json:"normalized_requirements"`
	TestCases              []TestCaseRecord    `json:"test_cases"`
	Coverage               CoverageResult      `json:"coverage"`
	AuditLog               AuditLog            `json:"audit_log"`
}

// Timestamp formats t the way audit log entries expect.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
