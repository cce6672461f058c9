package core

import (
	"errors"
	"fmt"
)

// AtomicBehavior is the smallest testable unit within a requirement:
// one actor performing one action on one object, optionally under a
// condition. A requirement with N independent actions yields N behaviors.
type AtomicBehavior struct {
	BehaviorID    string  `json:"behavior_id"`
	RequirementID string  `json:"requirement_id"`
	Actor         string  `json:"actor"`
	Action        string  `json:"action"`
	ObjectName    string  `json:"object_name"`
	Condition     *string `json:"condition"`
	Description   string  `json:"description"`
}

// BehaviorID builds the identifier for the seq-th behavior of a
// requirement: the requirement ID followed by "B" and a zero-padded
// two-digit sequence, e.g. "FR-1B01". seq is 1-based.
func BehaviorID(requirementID string, seq int) string {
	return fmt.Sprintf("%sB%02d", requirementID, seq)
}

// Validate checks the invariants of an atomic behavior.
func (b *AtomicBehavior) Validate() error {
	if b.BehaviorID == "" {
		return errors.New("behavior ID is required")
	}
	if b.RequirementID == "" {
		return errors.New("behavior must reference a requirement ID")
	}
	if b.Actor == "" {
		return errors.New("behavior actor is required")
	}
	if b.Action == "" {
		return errors.New("behavior action is required")
	}
	return nil
}
