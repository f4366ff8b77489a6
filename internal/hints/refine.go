package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
)

// DefaultRefineTimeout bounds the hint-refine oracle call.
const DefaultRefineTimeout = 6 * time.Second

// Item is one step submitted for hint refinement.
type Item struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Hint     string   `json:"hint,omitempty"`
}

// RefineRequest carries the steps whose hints should be rewritten.
type RefineRequest struct {
	Header       string `json:"header,omitempty"`
	OriginalText string `json:"originalText,omitempty"`
	Items        []Item `json:"items"`
}

// RefinedHint pairs an item ID with its finished hint.
type RefinedHint struct {
	ID   string `json:"id"`
	Hint string `json:"hint"`
}

// Refiner asks the oracle for better hints and passes every result
// through the Engine.
type Refiner struct {
	provider llm.Provider
	engine   *Engine
	timeout  time.Duration
	log      *logger.Logger
}

// NewRefiner creates a Refiner. A nil provider skips the oracle and only
// runs the Engine.
func NewRefiner(provider llm.Provider, engine *Engine, log *logger.Logger) *Refiner {
	if engine == nil {
		engine = NewEngine()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Refiner{provider: provider, engine: engine, timeout: DefaultRefineTimeout, log: log}
}

// WithTimeout overrides the oracle time box.
func (r *Refiner) WithTimeout(d time.Duration) *Refiner {
	r.timeout = d
	return r
}

var refineSchema = &llm.Schema{
	Name:        "hint-refine",
	Description: "One improved hint per step id",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":   map[string]any{"type": "string"},
						"hint": map[string]any{"type": "string"},
					},
					"required":             []any{"id", "hint"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"hints"},
		"additionalProperties": false,
	},
	Strict: true,
}

const refineSystemPrompt = `You improve hints for multiple-choice exam steps.

Rules:
- Return only JSON: {"hints": [{"id": "...", "hint": "..."}]} with one entry per step id.
- Each hint starts with "Hint: " and is 11 to 18 words long.
- Name the governing idea or relation without revealing the correct option or any computed value.
- Do not use the words consider, think about, recall, maybe, try or reflect.
- Avoid comparisons with other options; describe the idea itself.
- No two hints may be the same.`

// Refine returns one finished hint per item, in item order. Oracle
// failures fall back to the items' own hints.
func (r *Refiner) Refine(ctx context.Context, req RefineRequest) []RefinedHint {
	proposed := r.propose(ctx, req)

	steps := make([]stepgen.Step, len(req.Items))
	for i, it := range req.Items {
		hint := it.Hint
		if p, ok := proposed[it.ID]; ok && strings.TrimSpace(p) != "" {
			hint = p
		}
		steps[i] = stepgen.Step{
			ID:       it.ID,
			Step:     i + 1,
			Question: it.Question,
			Options:  it.Options,
			Hint:     hint,
		}
	}

	final := r.engine.Apply(steps, Context{Header: req.Header, OriginalText: req.OriginalText})
	out := make([]RefinedHint, len(final))
	for i, s := range final {
		out[i] = RefinedHint{ID: s.ID, Hint: s.Hint}
	}
	return out
}

func (r *Refiner) propose(ctx context.Context, req RefineRequest) map[string]string {
	if r.provider == nil || len(req.Items) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeHintRefine), r.timeout)
	defer cancel()

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      refineSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildRefineMessage(req)}},
		Schema:      refineSchema,
		MaxTokens:   1024,
		Temperature: 0.4,
	})
	if err != nil {
		r.log.Warn("hint refine failed, keeping item hints", "error", err, "items", len(req.Items))
		return nil
	}

	raw, ok := llm.SalvageJSON(string(resp.Content))
	if !ok {
		r.log.Warn("hint refine output unreadable, keeping item hints")
		return nil
	}
	var out struct {
		Hints []RefinedHint `json:"hints"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		r.log.Warn("hint refine output unreadable, keeping item hints", "error", err)
		return nil
	}

	proposed := make(map[string]string, len(out.Hints))
	for _, h := range out.Hints {
		proposed[h.ID] = h.Hint
	}
	return proposed
}

func buildRefineMessage(req RefineRequest) string {
	var b strings.Builder
	if req.Header != "" {
		fmt.Fprintf(&b, "Context: %s\n", req.Header)
	}
	if req.OriginalText != "" {
		fmt.Fprintf(&b, "Original problem:\n%s\n", req.OriginalText)
	}
	b.WriteString("\nSteps:\n")
	for _, it := range req.Items {
		fmt.Fprintf(&b, "- id: %s\n  question: %s\n  options: %s\n", it.ID, it.Question, strings.Join(it.Options, " | "))
		if it.Hint != "" {
			fmt.Fprintf(&b, "  current hint: %s\n", it.Hint)
		}
	}
	return b.String()
}
