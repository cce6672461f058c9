package core

import "fmt"

// RequirementClass is a requirement-type dimension assigned by the
// classifier. Values are the serialized class names used throughout the
// batch output.
type RequirementClass string

const (
	ClassFunctional  RequirementClass = "Functional"
	ClassSecurity    RequirementClass = "Security"
	ClassPerformance RequirementClass = "Performance"
	ClassValidation  RequirementClass = "Validation"
	ClassAPIBehavior RequirementClass = "API behavior"
	ClassConcurrency RequirementClass = "Concurrency"
	ClassNFR         RequirementClass = "NFR"
	ClassUsability   RequirementClass = "Usability"
)

// AllClasses lists every dimension the classifier scores, in the fixed
// tie-break priority order used when two dimensions score equally:
// Security > Performance > Concurrency > Validation > API behavior,
// then the remaining classes.
var AllClasses = []RequirementClass{
	ClassSecurity,
	ClassPerformance,
	ClassConcurrency,
	ClassValidation,
	ClassAPIBehavior,
	ClassNFR,
	ClassUsability,
	ClassFunctional,
}

// Priority hint values. The mapping from requirement text to hint is
// total: every classified requirement gets exactly one of these.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// ValidPriority reports whether s is a recognized priority hint.
func ValidPriority(s string) bool {
	switch s {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Classification is the classifier's verdict for one requirement:
// a primary class, any secondary classes above threshold (ordered by
// descending score, deduplicated, never containing the primary), a
// normalized confidence score per dimension, a priority hint, and a
// human-readable reasoning sentence for audit purposes.
type Classification struct {
	PrimaryClass     RequirementClass             `json:"primary_class"`
	SecondaryClasses []RequirementClass           `json:"secondary_classes"`
	ConfidenceScores map[RequirementClass]float64 `json:"confidence_scores"`
	PriorityHint     string                       `json:"priority_hint"`
	Reasoning        string                       `json:"reasoning"`
}

// Classes returns the primary class followed by the secondary classes,
// as serialized into each requirement record.
func (c *Classification) Classes() []string {
	out := make([]string, 0, 1+len(c.SecondaryClasses))
	out = append(out, string(c.PrimaryClass))
	for _, sc := range c.SecondaryClasses {
		out = append(out, string(sc))
	}
	return out
}

// HasClass reports whether the classification includes the given class,
// either as primary or secondary.
func (c *Classification) HasClass(class RequirementClass) bool {
	if c.PrimaryClass == class {
		return true
	}
	for _, sc := range c.SecondaryClasses {
		if sc == class {
			return true
		}
	}
	return false
}

// Validate checks classification invariants: a known priority hint, no
// duplicated secondary classes, and no secondary equal to the primary.
func (c *Classification) Validate() error {
	if c.PrimaryClass == "" {
		return fmt.Errorf("primary class is required")
	}
	if !ValidPriority(c.PriorityHint) {
		return fmt.Errorf("invalid priority hint %q", c.PriorityHint)
	}
	seen := map[RequirementClass]bool{c.PrimaryClass: true}
	for _, sc := range c.SecondaryClasses {
		if seen[sc] {
			return fmt.Errorf("duplicate or primary-overlapping secondary class %q", sc)
		}
		seen[sc] = true
	}
	for class, score := range c.ConfidenceScores {
		if score < 0 || score > 1 {
			return fmt.Errorf("confidence score for %q out of range: %f", class, score)
		}
	}
	return nil
}
