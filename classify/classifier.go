// Package classify assigns requirement-type labels, a priority hint, and
// an audit reasoning string to normalized requirements. Scoring is pure
// keyword/pattern counting against the versioned rule tables; there is no
// learned model and no failure mode beyond the Functional default.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tcgen/config"
	"tcgen/core"
	"tcgen/util"

	"go.uber.org/zap"
)

const (
	// keywordWeight and patternWeight are the raw points per match.
	// Patterns outrank keywords because they match stronger structural
	// evidence (time units, HTTP verb + path).
	keywordWeight = 1
	patternWeight = 2

	// functionalBaseline keeps Functional applicable to every
	// requirement that has a modal verb and an action.
	functionalBaseline = 1

	// dominantBase and dominantStep shape the primary class confidence:
	// a clearly dominant dimension lands in [0.7, 1.0].
	dominantBase = 0.7
	dominantStep = 0.05
)

// Classifier scores requirement text against per-dimension keyword and
// pattern sets. It is pure and total over any string input.
type Classifier struct {
	rules     *config.RuleTables
	logger    *zap.SugaredLogger
	threshold int
	patterns  map[core.RequirementClass][]*regexp.Regexp
}

// New builds a Classifier from the rule tables. threshold is the minimum
// raw score for a dimension to appear as a secondary class.
func New(rules *config.RuleTables, threshold int, logger *zap.SugaredLogger) *Classifier {
	patterns := make(map[core.RequirementClass][]*regexp.Regexp)
	for class, pats := range rules.DimensionPatterns {
		rc := core.RequirementClass(class)
		for _, p := range pats {
			patterns[rc] = append(patterns[rc], regexp.MustCompile(`(?i)`+p))
		}
	}
	return &Classifier{
		rules:     rules,
		logger:    logger,
		threshold: threshold,
		patterns:  patterns,
	}
}

// Classify scores every requirement-type dimension for the given text.
// norm may be nil; when present its action feeds the baseline Functional
// applicability check. The highest-scoring dimension becomes the primary
// class, with Functional as the default when nothing matches. Secondary
// classes are every other dimension at or above the threshold, ordered by
// descending score with ties broken by the fixed dimension priority
// order, so output is deterministic.
func (c *Classifier) Classify(text string, norm *core.NormalizedRequirement) core.Classification {
	scores := make(map[core.RequirementClass]int, len(core.AllClasses))
	matched := make(map[core.RequirementClass][]string, len(core.AllClasses))

	for class, keywords := range c.rules.DimensionKeywords {
		rc := core.RequirementClass(class)
		for _, kw := range util.MatchedWords(text, keywords) {
			scores[rc] += keywordWeight
			matched[rc] = append(matched[rc], kw)
		}
	}
	for rc, pats := range c.patterns {
		for _, p := range pats {
			if m := p.FindString(text); m != "" {
				scores[rc] += patternWeight
				matched[rc] = append(matched[rc], m)
			}
		}
	}

	// A requirement with a modal verb and an action is always at least
	// baseline Functional.
	if norm == nil || norm.Action != "" {
		if scores[core.ClassFunctional] < functionalBaseline {
			scores[core.ClassFunctional] = functionalBaseline
		}
	}

	primary := c.pickPrimary(scores)
	secondaries := c.pickSecondaries(scores, primary)
	hint := c.priorityHint(text, primary, secondaries)

	cls := core.Classification{
		PrimaryClass:     primary,
		SecondaryClasses: secondaries,
		ConfidenceScores: c.confidenceScores(scores, primary),
		PriorityHint:     hint,
		Reasoning:        c.reasoning(primary, matched[primary], hint),
	}
	if c.logger != nil {
		c.logger.Debugw("classified requirement",
			"primary", string(primary),
			"secondaries", len(secondaries),
			"priority", hint)
	}
	return cls
}

// pickPrimary returns the highest-scoring dimension; ties resolve by the
// fixed priority order in core.AllClasses.
func (c *Classifier) pickPrimary(scores map[core.RequirementClass]int) core.RequirementClass {
	best := core.ClassFunctional
	bestScore := -1
	for _, class := range core.AllClasses {
		if scores[class] > bestScore {
			best = class
			bestScore = scores[class]
		}
	}
	return best
}

// pickSecondaries returns every non-primary dimension scoring at or above
// the threshold, by descending score, ties broken by priority order.
func (c *Classifier) pickSecondaries(scores map[core.RequirementClass]int, primary core.RequirementClass) []core.RequirementClass {
	var out []core.RequirementClass
	for _, class := range core.AllClasses {
		if class == primary {
			continue
		}
		if scores[class] >= c.threshold {
			out = append(out, class)
		}
	}
	// AllClasses iteration already yields priority order; a stable sort
	// on score keeps that order for ties.
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}

// confidenceScores normalizes raw scores into [0,1]. The primary
// dimension lands in [0.7, 1.0] when it clearly dominates; every other
// dimension stays strictly below 0.7, proportional to its raw score.
func (c *Classifier) confidenceScores(scores map[core.RequirementClass]int, primary core.RequirementClass) map[core.RequirementClass]float64 {
	conf := make(map[core.RequirementClass]float64, len(core.AllClasses))
	for _, class := range core.AllClasses {
		raw := scores[class]
		if class == primary {
			v := dominantBase + dominantStep*float64(raw)
			if v > 1.0 {
				v = 1.0
			}
			conf[class] = v
			continue
		}
		v := 0.15 * float64(raw)
		if v > 0.65 {
			v = 0.65
		}
		conf[class] = v
	}
	return conf
}

// priorityHint maps a requirement to exactly one priority. High wins when
// the classification is Security-bearing or the text carries data-loss or
// irreversibility language; Low applies only to cosmetic or informational
// wording; everything else is Medium.
func (c *Classifier) priorityHint(text string, primary core.RequirementClass, secondaries []core.RequirementClass) string {
	if primary == core.ClassSecurity {
		return core.PriorityHigh
	}
	for _, sc := range secondaries {
		if sc == core.ClassSecurity {
			return core.PriorityHigh
		}
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.PriorityHighTerms); ok {
		return core.PriorityHigh
	}
	if _, ok := util.ContainsAnyWord(text, c.rules.PriorityLowTerms); ok {
		return core.PriorityLow
	}
	return core.PriorityMedium
}

// reasoning builds the audit sentence citing the matched triggers.
func (c *Classifier) reasoning(primary core.RequirementClass, triggers []string, hint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Primary classification: %s", primary)
	if len(triggers) > 0 {
		fmt.Fprintf(&b, " (matched: %s)", strings.Join(triggers, ", "))
	} else {
		b.WriteString(" (default: modal verb with action implies baseline functional behavior)")
	}
	fmt.Fprintf(&b, "; priority hint %s; rule tables v%s", hint, c.rules.Version)
	return b.String()
}
