package lecture

// ContentType identifies the visual archetype a segment is rendered with.
type ContentType string

const (
	Math       ContentType = "math"
	Diagram    ContentType = "diagram"
	Concept    ContentType = "concept"
	List       ContentType = "list"
	Comparison ContentType = "comparison"
	Timeline   ContentType = "timeline"
	PlainText  ContentType = "plain_text"
)

// ContentTypes lists every content type in classification priority order,
// with PlainText (the default) last.
var ContentTypes = []ContentType{Math, List, Comparison, Timeline, Diagram, Concept, PlainText}

// Valid reports whether c is one of the closed set of content types.
func (c ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// Segment is one narration block with its screen time and classification.
// Duration is assigned by Schedule and must not change afterwards.
type Segment struct {
	Text        string      `json:"text"`
	OrderIndex  int         `json:"order_index"`
	Duration    float64     `json:"duration_seconds"`
	ContentType ContentType `json:"content_type,omitempty"`
}

// Stage is a step of the render state machine.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageScheduled  Stage = "scheduled"
	StageClassified Stage = "classified"
	StageRendered   Stage = "rendered"
	StageAnimated   Stage = "animated"
	StageComposited Stage = "composited"
	StageAssembled  Stage = "assembled"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Terminal reports whether no further transitions can happen from s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}
