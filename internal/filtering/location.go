package filtering

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Verdict is the outcome of classifying a location.
type Verdict int

const (
	Reject Verdict = iota
	Accept
)

func (v Verdict) String() string {
	if v == Accept {
		return "accept"
	}
	return "reject"
}

// Rule names, in evaluation order.
const (
	RuleBlankOrSentinel = "blank-or-sentinel"
	RuleNonUSAToken     = "non-usa-token"
	RuleUSAToken        = "usa-token"
	RuleBareRemote      = "bare-remote"
	RuleDefault         = "default"
)

// sentinels are compared case-sensitively against the trimmed raw string.
var sentinels = map[string]bool{
	"":              true,
	"Not specified": true,
	"None":          true,
	"null":          true,
}

// Rule is one step of the classifier. Match receives the trimmed raw
// location and its lower-cased, accent-folded form.
type Rule struct {
	Name    string
	Verdict Verdict
	Match   func(raw, folded string) bool
}

// Decision records the verdict together with the rule that produced it.
type Decision struct {
	Verdict Verdict
	Rule    string
}

// Accepted reports whether the location was classified as USA-based.
func (d Decision) Accepted() bool {
	return d.Verdict == Accept
}

// Classifier maps free-text locations to accept/reject by evaluating an
// ordered rule list; the first matching rule wins and anything unmatched is
// rejected.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the five-step classifier over lists.
func NewClassifier(lists Lists) *Classifier {
	nonUSA := foldTerms(lists.NonUSA)
	usa := foldTerms(lists.USA)
	bare := make(map[string]bool, len(lists.BareRemote))
	for _, term := range foldTerms(lists.BareRemote) {
		bare[term] = true
	}

	return &Classifier{rules: []Rule{
		{
			Name:    RuleBlankOrSentinel,
			Verdict: Reject,
			Match:   func(raw, _ string) bool { return sentinels[raw] },
		},
		{
			Name:    RuleNonUSAToken,
			Verdict: Reject,
			Match:   func(_, folded string) bool { return containsAny(folded, nonUSA) },
		},
		{
			Name:    RuleUSAToken,
			Verdict: Accept,
			Match:   func(_, folded string) bool { return containsAny(folded, usa) },
		},
		{
			Name:    RuleBareRemote,
			Verdict: Reject,
			Match:   func(_, folded string) bool { return bare[folded] },
		},
	}}
}

// Rules returns the ordered rule names, ending with the implicit default.
func (c *Classifier) Rules() []string {
	names := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		names = append(names, r.Name)
	}
	return append(names, RuleDefault)
}

// Classify returns the verdict for location. It is total: every input gets
// exactly one of Accept or Reject.
func (c *Classifier) Classify(location string) Decision {
	raw := strings.TrimSpace(location)
	folded := fold(raw)
	for _, r := range c.rules {
		if r.Match(raw, folded) {
			return Decision{Verdict: r.Verdict, Rule: r.Name}
		}
	}
	return Decision{Verdict: Reject, Rule: RuleDefault}
}

var defaultClassifier = NewClassifier(DefaultLists())

// IsUSALocation classifies location with the built-in lists.
func IsUSALocation(location string) bool {
	return defaultClassifier.Classify(location).Accepted()
}

// foldTerms folds list tokens. Blank tokens are dropped; padding on the
// others is significant and kept.
func foldTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		out = append(out, fold(term))
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}
