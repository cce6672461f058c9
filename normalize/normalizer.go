// Package normalize turns raw requirement text into ordered, atomic
// Actor-Action-Conditions-Outcome statements with ambiguity findings and
// a full provenance trail. Normalization never fails outward: missing or
// unparseable information degrades confidence and records issues instead
// of aborting.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"tcgen/config"
	"tcgen/core"
	"tcgen/util"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

const (
	// confidencePenalty is subtracted per detected issue; more issues
	// always means lower confidence.
	confidencePenalty = 0.15
	// minConfidence is the floor below which confidence never drops.
	minConfidence = 0.2
)

// fallbackActor fills the actor slot when the text names none. The gap is
// still reported as an ambiguity issue.
const fallbackActor = "System"

// Normalizer splits raw text into atomic normalized requirements. One
// Normalizer is created per batch; it assigns date-stamped sequential
// requirement IDs that are unique within the batch.
type Normalizer struct {
	rules   *config.RuleTables
	logger  *zap.SugaredLogger
	vagueRe *regexp2.Regexp
	idStamp string
	seq     int
}

// New creates a Normalizer using the given rule tables. Requirement IDs
// carry the current UTC date.
func New(rules *config.RuleTables, logger *zap.SugaredLogger) *Normalizer {
	return NewWithStamp(rules, logger, time.Now().UTC().Format("20060102"))
}

// NewWithStamp creates a Normalizer with a fixed ID date stamp, for
// callers that need reproducible IDs.
func NewWithStamp(rules *config.RuleTables, logger *zap.SugaredLogger, stamp string) *Normalizer {
	return &Normalizer{
		rules:   rules,
		logger:  logger,
		vagueRe: compileVaguePattern(rules.VagueTerms),
		idStamp: stamp,
	}
}

// compileVaguePattern builds a single pattern matching any vague term not
// followed by a digit nearby. The negative lookahead needs regexp2; the
// standard library regexp has no lookaround support.
func compileVaguePattern(terms []string) *regexp2.Regexp {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, regexp2.Escape(t))
	}
	pattern := fmt.Sprintf(`(?i)\b(%s)\b(?![^.,;]{0,20}\d)`, strings.Join(escaped, "|"))
	return regexp2.MustCompile(pattern, regexp2.IgnoreCase)
}

// Normalize converts text into one or more normalized requirements. For
// any non-empty input the result is non-empty; text with no recognizable
// structure yields a single low-confidence requirement with issues
// attached. Empty input returns nil; callers validate non-empty text
// before invoking the pipeline.
func (n *Normalizer) Normalize(text string) []core.NormalizedRequirement {
	clean := util.NormalizeSpace(text)
	if clean == "" {
		return nil
	}

	clauses := n.splitCompound(clean)
	results := make([]core.NormalizedRequirement, 0, len(clauses))
	for _, clause := range clauses {
		req := n.normalizeClause(clause, clean, len(clauses))
		results = append(results, req)
	}
	if n.logger != nil {
		n.logger.Debugw("normalized requirement text",
			"clauses", len(clauses),
			"results", len(results))
	}
	return results
}

// splitCompound splits text at every coordinating "and" whose both sides
// contain a modal verb. A new actor clause becomes a new requirement;
// clauses sharing one actor with multiple actions stay together and are
// split later by behavior extraction. Three-way conjunctions split at
// every qualifying "and", left to right.
func (n *Normalizer) splitCompound(text string) []string {
	parts := []string{text}
	for {
		split := false
		var next []string
		for _, part := range parts {
			left, right, ok := n.splitOnce(part)
			if ok {
				next = append(next, left, right)
				split = true
			} else {
				next = append(next, part)
			}
		}
		parts = next
		if !split {
			return parts
		}
	}
}

// splitOnce finds the first "and" in part with a modal verb on each side
// and splits there.
func (n *Normalizer) splitOnce(part string) (string, string, bool) {
	tokens := util.Tokenize(part)
	for i, tok := range tokens {
		if !strings.EqualFold(util.StripPunct(tok), "and") {
			continue
		}
		left := strings.Join(tokens[:i], " ")
		right := strings.Join(tokens[i+1:], " ")
		if n.containsModal(left) && n.containsModal(right) {
			return strings.TrimSuffix(left, ","), right, true
		}
	}
	return "", "", false
}

func (n *Normalizer) containsModal(text string) bool {
	_, ok := util.ContainsAnyWord(text, n.rules.ModalVerbs)
	return ok
}

// normalizeClause fills the actor/action/conditions/outcome slots for one
// clause and runs ambiguity detection over it.
func (n *Normalizer) normalizeClause(clause, sourceText string, clauseCount int) core.NormalizedRequirement {
	n.seq++
	reqID := fmt.Sprintf("REQ-%s-%04d", n.idStamp, n.seq)

	var steps []string
	var issues []core.AmbiguityIssue
	var questions []string

	if clauseCount > 1 {
		steps = append(steps, fmt.Sprintf("Split compound requirement into %d atomic clauses", clauseCount))
	}

	actor, action, conditions, outcome, slotSteps, slotIssues, slotQuestions := n.extractSlots(clause)
	steps = append(steps, slotSteps...)
	issues = append(issues, slotIssues...)
	questions = append(questions, slotQuestions...)

	vagueIssues, vagueQuestions := n.detectVagueTerms(clause)
	issues = append(issues, vagueIssues...)
	questions = append(questions, vagueQuestions...)
	for _, iss := range vagueIssues {
		steps = append(steps, "Flagged ambiguity: "+iss.Description)
	}

	confidence := 1.0 - confidencePenalty*float64(len(issues))
	if confidence < minConfidence {
		confidence = minConfidence
	}

	return core.NormalizedRequirement{
		OriginalText:        clause,
		Actor:               actor,
		Action:              action,
		Conditions:          conditions,
		ExpectedOutcome:     outcome,
		IsAmbiguous:         len(issues) > 0,
		AmbiguityIssues:     issues,
		ClarifyingQuestions: questions,
		Confidence:          confidence,
		Provenance: core.Provenance{
			RequirementID:       reqID,
			OriginalText:        sourceText,
			TransformationSteps: steps,
			Confidence:          confidence,
		},
	}
}

// extractSlots identifies the actor as the subject preceding the modal
// verb, the action as the verb phrase after it up to a conditional
// marker, conditions from marker-introduced clauses, and the outcome from
// a trailing "so that" clause, defaulting to a paraphrase of the action.
func (n *Normalizer) extractSlots(clause string) (actor, action string, conditions []string, outcome string, steps []string, issues []core.AmbiguityIssue, questions []string) {
	tokens := util.Tokenize(clause)
	modalIdx := -1
	for i, tok := range tokens {
		if n.isModal(util.StripPunct(tok)) {
			modalIdx = i
			break
		}
	}

	var rest []string
	switch {
	case modalIdx < 0:
		// No modal verb at all: treat the whole clause as the action and
		// report the missing structure.
		issues = append(issues, core.AmbiguityIssue{Description: "No modal verb found; requirement structure is unclear"})
		questions = append(questions, "What obligation does this requirement express (shall/must/should)?")
		actor = fallbackActor
		steps = append(steps, fmt.Sprintf("Actor missing; defaulted to '%s'", fallbackActor))
		rest = tokens
	case modalIdx == 0:
		issues = append(issues, core.AmbiguityIssue{Description: "Missing actor before modal verb"})
		questions = append(questions, "Who or what performs this action?")
		actor = fallbackActor
		steps = append(steps, fmt.Sprintf("Actor missing; defaulted to '%s'", fallbackActor))
		rest = tokens[modalIdx+1:]
	default:
		actor = cleanActor(tokens[:modalIdx])
		if actor == "" {
			issues = append(issues, core.AmbiguityIssue{Description: "Missing actor before modal verb"})
			questions = append(questions, "Who or what performs this action?")
			actor = fallbackActor
			steps = append(steps, fmt.Sprintf("Actor missing; defaulted to '%s'", fallbackActor))
		} else {
			steps = append(steps, fmt.Sprintf("Identified actor '%s'", actor))
		}
		rest = tokens[modalIdx+1:]
	}

	// Strip auxiliary "be" so "shall be fast" yields action "fast".
	if len(rest) > 0 && strings.EqualFold(rest[0], "be") {
		rest = rest[1:]
	}

	actionTokens, conditions, outcome := n.splitConditions(rest)
	if conditions == nil {
		conditions = []string{}
	}
	action = strings.TrimRight(strings.Join(actionTokens, " "), " .,;")
	if action == "" {
		issues = append(issues, core.AmbiguityIssue{Description: "Missing action after modal verb"})
		questions = append(questions, "What action must be performed?")
		action = "perform required behavior"
		steps = append(steps, "Action missing; inserted placeholder action")
	} else {
		steps = append(steps, fmt.Sprintf("Extracted action '%s'", action))
	}
	if len(conditions) > 0 {
		steps = append(steps, fmt.Sprintf("Extracted %d condition(s)", len(conditions)))
	}
	if outcome == "" {
		outcome = fmt.Sprintf("Successful completion of '%s'", action)
		steps = append(steps, "Derived expected outcome from action")
	} else {
		steps = append(steps, "Extracted explicit outcome clause")
	}
	return actor, action, conditions, outcome, steps, issues, questions
}

// splitConditions walks the tokens after the modal verb, cutting the
// action at the first conditional marker and collecting each
// marker-introduced clause as a condition. A trailing "so that" clause
// becomes the explicit outcome.
func (n *Normalizer) splitConditions(tokens []string) (actionTokens []string, conditions []string, outcome string) {
	// Pull off an explicit outcome first so its words are not swallowed
	// into a condition.
	joined := strings.Join(tokens, " ")
	if idx := strings.Index(strings.ToLower(joined), " so that "); idx >= 0 {
		outcome = util.NormalizeSpace(joined[idx+len(" so that "):])
		joined = joined[:idx]
		tokens = util.Tokenize(joined)
	}

	current := []string{}
	var markerSeen bool
	for _, tok := range tokens {
		if n.isConditionalMarker(util.StripPunct(tok)) {
			if markerSeen {
				if cond := strings.TrimRight(strings.Join(current, " "), " .,;"); cond != "" {
					conditions = append(conditions, cond)
				}
			} else {
				actionTokens = current
				markerSeen = true
			}
			current = []string{}
			continue
		}
		current = append(current, tok)
	}
	if markerSeen {
		if cond := strings.TrimRight(strings.Join(current, " "), " .,;"); cond != "" {
			conditions = append(conditions, cond)
		}
	} else {
		actionTokens = current
	}
	return actionTokens, conditions, outcome
}

// detectVagueTerms scans for vague qualifiers that lack a measurable
// criterion nearby. Each finding lowers confidence and produces a
// clarifying question.
func (n *Normalizer) detectVagueTerms(clause string) ([]core.AmbiguityIssue, []string) {
	var issues []core.AmbiguityIssue
	var questions []string
	seen := make(map[string]bool)

	m, err := n.vagueRe.FindStringMatch(clause)
	for err == nil && m != nil {
		term := strings.ToLower(m.String())
		if !seen[term] {
			seen[term] = true
			issues = append(issues, core.AmbiguityIssue{
				Description: fmt.Sprintf("Vague term '%s' used without measurable criteria", term),
			})
			questions = append(questions, fmt.Sprintf("What measurable criteria define '%s'?", term))
		}
		m, err = n.vagueRe.FindNextMatch(m)
	}
	return issues, questions
}

func (n *Normalizer) isModal(tok string) bool {
	for _, m := range n.rules.ModalVerbs {
		if strings.EqualFold(tok, m) {
			return true
		}
	}
	return false
}

func (n *Normalizer) isConditionalMarker(tok string) bool {
	for _, m := range n.rules.ConditionalMarkers {
		if strings.EqualFold(tok, m) {
			return true
		}
	}
	return false
}

// cleanActor drops leading articles from the subject tokens and returns
// the capitalized actor phrase.
func cleanActor(tokens []string) string {
	start := 0
	for start < len(tokens) {
		switch strings.ToLower(util.StripPunct(tokens[start])) {
		case "the", "a", "an":
			start++
			continue
		}
		break
	}
	cleaned := make([]string, 0, len(tokens)-start)
	for _, tok := range tokens[start:] {
		if t := util.StripPunct(tok); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return util.Capitalize(strings.Join(cleaned, " "))
}
