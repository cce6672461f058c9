// Package behavior decomposes a normalized requirement into atomic
// behaviors: one actor, one action verb, one object, and an optional
// condition each. Extraction never returns zero behaviors for a
// non-empty action; malformed action text falls back to a single
// low-confidence behavior with an explicit issue.
package behavior

import (
	"fmt"
	"strings"

	"tcgen/config"
	"tcgen/core"
	"tcgen/util"

	"go.uber.org/zap"
)

const (
	// malformedConfidence applies when the action text carries no
	// recognizable verb phrase.
	malformedConfidence = 0.5
	// compoundConfidence applies when a compound action was split; the
	// split itself is a judgment call worth surfacing.
	compoundConfidence = 0.9
	// titleCaseRunLimit is the longest run of title-case tokens an
	// action phrase may contain before it reads as a pasted heading.
	titleCaseRunLimit = 3
)

// prepositions separate a verb from its object phrase.
var prepositions = map[string]bool{
	"with": true, "to": true, "for": true, "from": true,
	"into": true, "on": true, "in": true, "at": true,
	"of": true, "by": true, "a": true, "an": true, "the": true,
}

// ExtractionResult carries the behaviors extracted from one requirement
// together with the extraction confidence and informational issues.
type ExtractionResult struct {
	Behaviors  []core.AtomicBehavior `json:"behaviors"`
	Confidence float64               `json:"confidence"`
	Issues     []string              `json:"issues"`
}

// Extractor splits compound action phrases and identifies verb/object
// pairs using the action-verb vocabulary from the rule tables.
type Extractor struct {
	rules  *config.RuleTables
	logger *zap.SugaredLogger
	verbs  map[string]bool
}

// New creates an Extractor from the rule tables.
func New(rules *config.RuleTables, logger *zap.SugaredLogger) *Extractor {
	verbs := make(map[string]bool, len(rules.ActionVerbs))
	for _, v := range rules.ActionVerbs {
		verbs[strings.ToLower(v)] = true
	}
	return &Extractor{rules: rules, logger: logger, verbs: verbs}
}

// Extract decomposes the normalized requirement's action into atomic
// behaviors. Compound actions joined by a coordinating conjunction yield
// one behavior per verb phrase, each inheriting the requirement's actor
// and condition. Malformed actions still yield exactly one behavior with
// the raw text as fallback and a reduced confidence.
func (e *Extractor) Extract(requirementID string, norm *core.NormalizedRequirement, requirementType string) ExtractionResult {
	result := ExtractionResult{Confidence: 1.0, Issues: []string{}}
	action := util.NormalizeSpace(norm.Action)
	if action == "" {
		// Normalization guarantees a non-empty action, but degrade
		// instead of trusting that from here.
		result.Issues = append(result.Issues, "missing action text; emitted placeholder behavior")
		result.Confidence = malformedConfidence
		result.Behaviors = []core.AtomicBehavior{e.fallbackBehavior(requirementID, norm, "perform required behavior", 1)}
		return result
	}

	condition := joinConditions(norm.Conditions)

	if e.isMalformed(action) {
		result.Issues = append(result.Issues, fmt.Sprintf("malformed action %q: no recognizable verb phrase", action))
		result.Confidence = malformedConfidence
		result.Behaviors = []core.AtomicBehavior{e.fallbackBehavior(requirementID, norm, action, 1)}
		if e.logger != nil {
			e.logger.Debugw("malformed action in behavior extraction",
				"requirement_id", requirementID,
				"requirement_type", requirementType)
		}
		return result
	}

	phrases := e.splitVerbPhrases(action)
	if len(phrases) > 1 {
		result.Issues = append(result.Issues, fmt.Sprintf("compound action split into %d behaviors", len(phrases)))
		result.Confidence = compoundConfidence
	}

	for i, phrase := range phrases {
		verb, object := e.verbObject(phrase)
		b := core.AtomicBehavior{
			BehaviorID:    core.BehaviorID(requirementID, i+1),
			RequirementID: requirementID,
			Actor:         norm.Actor,
			Action:        verb,
			ObjectName:    object,
			Condition:     condition,
			Description:   describe(norm.Actor, phrase, condition),
		}
		result.Behaviors = append(result.Behaviors, b)
	}
	return result
}

// isMalformed reports whether the action text reads like pasted document
// structure instead of a verb phrase: no recognizable verb opening the
// phrase, combined with structural noise such as parenthetical codes,
// numbering, or long title-case runs.
func (e *Extractor) isMalformed(action string) bool {
	tokens := util.Tokenize(action)
	if len(tokens) == 0 {
		return true
	}
	first := strings.ToLower(util.StripPunct(tokens[0]))
	if e.verbs[first] {
		return false
	}
	// An unknown lowercase first token is still treated as a verb; only
	// structural noise tips the phrase into malformed territory.
	hasNoise := util.HasParentheticalCode(action) ||
		util.TitleCaseRun(tokens) >= titleCaseRunLimit ||
		(util.HasDigit(action) && !hasUnitContext(action))
	if !hasNoise {
		return false
	}
	// Noise plus a capitalized non-verb opener means no verb phrase.
	return !isLowerWord(tokens[0])
}

// hasUnitContext reports whether digits in the text belong to a
// measurement rather than section numbering.
func hasUnitContext(s string) bool {
	lower := strings.ToLower(s)
	for _, unit := range []string{"millisecond", "second", "minute", "%", "character", "item", "byte", "mb", "kb"} {
		if strings.Contains(lower, unit) {
			return true
		}
	}
	return false
}

func isLowerWord(tok string) bool {
	t := util.StripPunct(tok)
	return t != "" && strings.ToLower(t) == t
}

// splitVerbPhrases splits a compound action on coordinating "and" when
// the following token is a recognizable verb, so "authenticate user and
// redirect to dashboard" becomes two phrases while "validate format and
// length" stays one.
func (e *Extractor) splitVerbPhrases(action string) []string {
	tokens := util.Tokenize(action)
	var phrases []string
	current := []string{}
	for i := 0; i < len(tokens); i++ {
		tok := util.StripPunct(tokens[i])
		if strings.EqualFold(tok, "and") && i+1 < len(tokens) {
			next := strings.ToLower(util.StripPunct(tokens[i+1]))
			if e.verbs[next] && len(current) > 0 {
				phrases = append(phrases, strings.Join(current, " "))
				current = []string{}
				continue
			}
		}
		current = append(current, tokens[i])
	}
	if len(current) > 0 {
		phrases = append(phrases, strings.Join(current, " "))
	}
	if len(phrases) == 0 {
		phrases = []string{action}
	}
	return phrases
}

// verbObject splits a phrase into its leading verb and the head noun
// phrase that follows, skipping prepositions and articles.
func (e *Extractor) verbObject(phrase string) (verb, object string) {
	tokens := util.Tokenize(phrase)
	if len(tokens) == 0 {
		return phrase, ""
	}
	verb = util.StripPunct(tokens[0])
	rest := tokens[1:]
	start := 0
	for start < len(rest) && prepositions[strings.ToLower(util.StripPunct(rest[start]))] {
		start++
	}
	objTokens := make([]string, 0, len(rest)-start)
	for _, tok := range rest[start:] {
		if t := util.StripPunct(tok); t != "" {
			objTokens = append(objTokens, t)
		}
	}
	return verb, strings.Join(objTokens, " ")
}

// fallbackBehavior builds the single behavior emitted for malformed or
// missing actions, using the raw text as both action and object.
func (e *Extractor) fallbackBehavior(requirementID string, norm *core.NormalizedRequirement, raw string, seq int) core.AtomicBehavior {
	condition := joinConditions(norm.Conditions)
	return core.AtomicBehavior{
		BehaviorID:    core.BehaviorID(requirementID, seq),
		RequirementID: requirementID,
		Actor:         norm.Actor,
		Action:        raw,
		ObjectName:    raw,
		Condition:     condition,
		Description:   describe(norm.Actor, raw, condition),
	}
}

func joinConditions(conditions []string) *string {
	if len(conditions) == 0 {
		return nil
	}
	joined := strings.Join(conditions, "; ")
	return &joined
}

func describe(actor, phrase string, condition *string) string {
	desc := fmt.Sprintf("%s %s", actor, phrase)
	if condition != nil {
		desc += fmt.Sprintf(" (condition: %s)", *condition)
	}
	return desc
}
