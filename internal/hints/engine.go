package hints

import (
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
)

// Engine finalizes the hints of one step set. The zero value is ready
// to use and logs nothing.
type Engine struct {
	log *logger.Logger
}

// NewEngine returns an Engine.
func NewEngine() *Engine { return &Engine{} }

// WithLogger makes Apply log each finished hint at debug level.
func (e *Engine) WithLogger(log *logger.Logger) *Engine {
	e.log = log
	return e
}

// Apply returns a copy of steps whose hints are strengthened when weak,
// distinct across the set, within the contrast budget of floor(n/3) and
// normalized to the word window with the "Hint: " prefix. The input is
// not modified.
func (e *Engine) Apply(steps []stepgen.Step, ctx Context) []stepgen.Step {
	out := make([]stepgen.Step, len(steps))
	copy(out, steps)

	budget := ContrastBudget(len(out))
	seen := make(map[string]bool, len(out))

	for i := range out {
		s := out[i]
		if s.Step == 0 {
			s.Step = i + 1
		}
		mode := Classify(s.Question, s.Options)

		text := s.Hint
		if IsWeak(text) {
			text = Strengthen(s, ctx)
		}
		text = Normalize(text)

		if HasContrast(text) {
			if budget > 0 {
				budget--
			} else {
				text = Normalize(stripContrast(text, mode))
			}
		}

		for attempt := 0; seen[hintKey(text)]; attempt++ {
			text = Normalize(Alternate(mode, s, attempt))
		}
		seen[hintKey(text)] = true

		out[i].Hint = text
		if e.log != nil {
			c := Describe(out[i])
			e.log.Debug("hint finalized", "step", s.Step, "mode", string(c.Mode),
				"contrast", c.HasContrastLanguage, "words", c.WordCount)
		}
	}
	return out
}

func hintKey(hint string) string {
	return strings.ToLower(strings.TrimSpace(hint))
}

// Candidate is a finished hint with its classification.
type Candidate struct {
	Text                string `json:"text"`
	Mode                Mode   `json:"mode"`
	HasContrastLanguage bool   `json:"hasContrastLanguage"`
	WordCount           int    `json:"wordCount"`
}

// Describe classifies a step's current hint.
func Describe(step stepgen.Step) Candidate {
	return Candidate{
		Text:                step.Hint,
		Mode:                Classify(step.Question, step.Options),
		HasContrastLanguage: HasContrast(step.Hint),
		WordCount:           WordCount(step.Hint),
	}
}
