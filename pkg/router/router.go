// Package router classifies inbound messages as computation or conversation.
//
// Classification is a replaceable policy behind the Classifier interface.
// The shipped Heuristic uses keyword, operator, and digit cues; it is
// deterministic, never fails, and defaults to conversation on ambiguity,
// which is the cheaper and safer route.
package router

import (
	"regexp"
	"strings"

	"github.com/sessionlab/poolchat/pkg/api"
)

// Classifier decides how an inbound message is routed.
type Classifier interface {
	Classify(message string) api.Classification
}

// mathKeywords are phrases that signal an arithmetic question when digits
// are also present.
var mathKeywords = []string{
	"calculate", "squared", "square", "root", "solve",
	"what is", "what's", "how much", "percentage", "percent",
	"times", "multiply", "divide", "addition", "subtract",
	"plus", "minus", "sum of", "product of",
}

// codeCues are phrases that signal an explicit code request regardless of
// digits.
var codeCues = []string{
	"python", "write code", "run code", "execute", "script",
	"program that", "function that",
}

// mathOperators are operator substrings that signal arithmetic when digits
// are also present.
var mathOperators = []string{"+", "-", "*", "/", "=", "^", "%"}

var (
	digitPattern     = regexp.MustCompile(`\b\d+\b`)
	timesShorthandRe = regexp.MustCompile(`\d\s*[x×]\s*\d`)
	arithmeticExprRe = regexp.MustCompile(`\d+\s*(\*\*|[-+*/%^])\s*\d+`)
)

// Heuristic is the default keyword/operator classifier.
type Heuristic struct{}

// NewHeuristic returns the default classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Classify returns computation when the message plausibly requires code
// execution to answer correctly, conversation otherwise. The same message
// always yields the same result.
func (h *Heuristic) Classify(message string) api.Classification {
	lower := strings.ToLower(message)

	for _, cue := range codeCues {
		if strings.Contains(lower, cue) {
			return api.ClassificationComputation
		}
	}

	hasDigits := digitPattern.MatchString(message)
	if !hasDigits {
		return api.ClassificationConversation
	}

	if arithmeticExprRe.MatchString(message) || timesShorthandRe.MatchString(lower) {
		return api.ClassificationComputation
	}

	hasOperator := false
	for _, op := range mathOperators {
		if strings.Contains(lower, op) {
			hasOperator = true
			break
		}
	}
	if hasOperator {
		return api.ClassificationComputation
	}

	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			return api.ClassificationComputation
		}
	}

	return api.ClassificationConversation
}
