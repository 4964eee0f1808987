package slides

import (
	"regexp"
	"strings"
	"unicode"
)

// sentences splits text after '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pick returns up to limit sentences of text that are longer than minLen
// runes. When none qualify the whole trimmed text is the only item.
func pick(text string, limit, minLen int) []string {
	var out []string
	for _, s := range sentences(text) {
		if len([]rune(s)) <= minLen {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		if t := strings.TrimSpace(text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// formulaPatterns find formula-like substrings, checked in order.
var formulaPatterns = []*regexp.Regexp{
	// assignment: x = 3y + 2
	regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]*\s*=\s*[^,;=]+`),
	// exponent: x^2, e^{i}
	regexp.MustCompile(`\b[A-Za-z0-9]+\^\{?[A-Za-z0-9+\-]+\}?`),
	// arithmetic equality: 3 + 4 = 7
	regexp.MustCompile(`\d+(?:\.\d+)?\s*[-+*/×÷]\s*\d+(?:\.\d+)?\s*=\s*\d+(?:\.\d+)?`),
	// LaTeX fraction: \frac{a}{b}
	regexp.MustCompile(`\\frac\{[^}]*\}\{[^}]*\}`),
}

const maxFormulaLen = 48

// formulas extracts up to limit distinct formula-like substrings.
func formulas(text string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range formulaPatterns {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimRight(strings.TrimSpace(m), ".!? ")
			if m == "" || seen[m] {
				continue
			}
			if r := []rune(m); len(r) > maxFormulaLen {
				m = string(r[:maxFormulaLen]) + "…"
			}
			seen[m] = true
			out = append(out, m)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// wrapColumns breaks text into lines of at most width runes on word
// boundaries, like Python's textwrap.fill.
func wrapColumns(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func truncate(text string, max int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= max {
		return string(r)
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
