// Package util provides the text primitives shared by the pipeline
// stages: tokenization, word-boundary matching, and lightweight shape
// checks over requirement text.
package util

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordSplitRe   = regexp.MustCompile(`\s+`)
	digitRe       = regexp.MustCompile(`\d`)
	parentheticRe = regexp.MustCompile(`\([A-Z0-9]{2,}\)`)
)

// NormalizeSpace collapses all runs of whitespace to single spaces and
// trims the result.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(wordSplitRe.ReplaceAllString(s, " "))
}

// Tokenize splits text into whitespace-separated tokens, preserving case.
func Tokenize(s string) []string {
	s = NormalizeSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

// StripPunct removes leading and trailing punctuation from a token.
func StripPunct(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '/'
	})
}

// ContainsWord reports whether text contains word (which may be a
// multi-word phrase) at word boundaries, case-insensitively.
func ContainsWord(text, word string) bool {
	lt := " " + strings.ToLower(NormalizeSpace(stripWordPunct(text))) + " "
	lw := " " + strings.ToLower(NormalizeSpace(word)) + " "
	return strings.Contains(lt, lw)
}

// stripWordPunct replaces sentence punctuation with spaces so boundary
// matching does not miss words adjacent to commas or periods.
func stripWordPunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ';', ':', '!', '?', '(', ')', '"', '\'':
			return ' '
		}
		return r
	}, s)
}

// ContainsAnyWord reports whether text contains any of the given words at
// word boundaries and returns the first match.
func ContainsAnyWord(text string, words []string) (string, bool) {
	for _, w := range words {
		if ContainsWord(text, w) {
			return w, true
		}
	}
	return "", false
}

// MatchedWords returns every word from vocabulary present in text, in
// vocabulary order, without duplicates.
func MatchedWords(text string, vocabulary []string) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, w := range vocabulary {
		if seen[w] {
			continue
		}
		if ContainsWord(text, w) {
			matched = append(matched, w)
			seen[w] = true
		}
	}
	return matched
}

// HasDigit reports whether the text contains at least one decimal digit.
func HasDigit(s string) bool {
	return digitRe.MatchString(s)
}

// HasParentheticalCode reports whether the text contains a parenthesized
// uppercase code such as "(SPMS)", a strong signal of copy-pasted
// document structure rather than prose.
func HasParentheticalCode(s string) bool {
	return parentheticRe.MatchString(s)
}

// TitleCaseRun returns the length of the longest run of consecutive
// title-case tokens. Long runs indicate headings pasted into requirement
// text.
func TitleCaseRun(tokens []string) int {
	longest, run := 0, 0
	for _, tok := range tokens {
		t := StripPunct(tok)
		if isTitleCase(t) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func isTitleCase(tok string) bool {
	if tok == "" {
		return false
	}
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
