package lecture

import (
	"regexp"
	"strings"
	"unicode"
)

// keywordRule is one entry of the classification table. Keywords are
// matched as whole words or phrases; symbols as raw substrings.
type keywordRule struct {
	contentType ContentType
	keywords    []string
	symbols     []string
	pattern     *regexp.Regexp
}

// rules is evaluated in order and the first match wins. A sentence that
// mentions both a formula and a numbered step is Math.
var rules = []keywordRule{
	{
		contentType: Math,
		keywords: []string{
			"equation", "equations", "formula", "formulas", "calculate", "calculation",
			"theorem", "derivative", "integral", "algebra", "polynomial", "quadratic",
			"solve", "variable", "exponent", "fraction", "square root",
		},
		symbols: []string{"=", "^", `\frac`},
	},
	{
		contentType: List,
		keywords: []string{
			"first", "second", "third", "firstly", "secondly", "finally", "steps",
			"step", "list", "following", "several", "types of", "kinds of",
			"include", "includes", "key points",
		},
	},
	{
		contentType: Comparison,
		keywords: []string{
			"versus", "vs", "compare", "compared", "comparison", "comparing",
			"difference", "differences", "unlike", "whereas", "contrast",
			"on the other hand", "advantages", "disadvantages", "pros and cons",
		},
	},
	{
		contentType: Timeline,
		keywords: []string{
			"history", "historical", "century", "centuries", "decade", "decades",
			"era", "timeline", "chronological", "evolution", "evolved", "ancient",
			"originally", "over time",
		},
		pattern: regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})s?\b`),
	},
	{
		contentType: Diagram,
		keywords: []string{
			"process", "flow", "cycle", "structure", "diagram", "architecture",
			"stages", "pipeline", "mechanism", "workflow", "leads to", "results in",
			"system",
		},
	},
	{
		contentType: Concept,
		keywords: []string{
			"concept", "idea", "theory", "principle", "imagine", "represents",
			"definition", "define", "means", "understand", "fundamental", "abstract",
		},
	},
}

// Classify maps text to its visual archetype. It is pure and total: text
// that matches no rule is PlainText.
func Classify(text string) ContentType {
	lower := strings.ToLower(text)
	padded := " " + normalizeWords(lower) + " "
	for _, rule := range rules {
		if rule.matches(lower, padded) {
			return rule.contentType
		}
	}
	return PlainText
}

// ClassifyAll fills ContentType on every segment.
func ClassifyAll(segments []Segment) {
	for i := range segments {
		segments[i].ContentType = Classify(segments[i].Text)
	}
}

func (r keywordRule) matches(lower, padded string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	for _, sym := range r.symbols {
		if strings.Contains(lower, sym) {
			return true
		}
	}
	return r.pattern != nil && r.pattern.MatchString(lower)
}

// normalizeWords replaces everything but letters and digits with single
// spaces so keywords match on word boundaries.
func normalizeWords(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
