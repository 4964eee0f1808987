package lecture

import (
	"fmt"
	"math"
	"strings"
)

const (
	// WordsPerSecond is the assumed narration speaking rate.
	WordsPerSecond = 2.5

	// TargetGroupSeconds is the screen time a sentence group aims for when
	// the script has too few paragraphs.
	TargetGroupSeconds = 20.0

	// MinParagraphs is the paragraph count below which the script is
	// regrouped by sentences.
	MinParagraphs = 3

	// DefaultLeadIn is the duration reserved for the title clip.
	DefaultLeadIn = 3.0
)

// targetGroupWords is the word count at which a sentence group is closed.
var targetGroupWords = int(WordsPerSecond * TargetGroupSeconds)

// Schedule splits script into ordered segments and divides the narration
// time left after leadIn equally between them.
//
// Duration is proportional to the number of segments, not to their word
// counts. A script that yields no text blocks still produces one segment
// spanning the remaining time. When total <= leadIn every segment gets zero
// duration.
func Schedule(script string, total, leadIn float64) ([]Segment, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return nil, fmt.Errorf("%w: invalid total duration %v", ErrScheduling, total)
	}
	if math.IsNaN(leadIn) || math.IsInf(leadIn, 0) || leadIn < 0 {
		return nil, fmt.Errorf("%w: invalid lead-in %v", ErrScheduling, leadIn)
	}

	blocks := SplitScript(script)
	if len(blocks) == 0 {
		blocks = []string{strings.TrimSpace(script)}
	}

	remaining := math.Max(0, total-leadIn)
	per := remaining / float64(len(blocks))

	segments := make([]Segment, len(blocks))
	for i, text := range blocks {
		segments[i] = Segment{Text: text, OrderIndex: i, Duration: per}
	}
	return segments, nil
}

// SplitScript returns the text blocks that become segments: paragraphs when
// there are at least MinParagraphs of them, sentence groups otherwise.
func SplitScript(script string) []string {
	paragraphs := splitNonEmpty(script, "\n\n")
	if len(paragraphs) >= MinParagraphs {
		return paragraphs
	}
	return groupSentences(script)
}

// groupSentences accumulates ". "-separated sentences until the running group
// holds targetGroupWords words, then starts a new group.
func groupSentences(script string) []string {
	var (
		groups  []string
		current strings.Builder
		words   int
	)
	for _, sentence := range splitNonEmpty(script, ". ") {
		if words >= targetGroupWords {
			groups = append(groups, strings.TrimSpace(current.String()))
			current.Reset()
			words = 0
		}
		current.WriteString(terminate(sentence))
		current.WriteString(" ")
		words += len(strings.Fields(sentence))
	}
	if current.Len() > 0 {
		groups = append(groups, strings.TrimSpace(current.String()))
	}
	return groups
}

// terminate puts back the period consumed by the ". " split.
func terminate(sentence string) string {
	switch sentence[len(sentence)-1] {
	case '.', '!', '?', ':', ';':
		return sentence
	}
	return sentence + "."
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
