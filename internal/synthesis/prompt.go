package synthesis

import (
	"fmt"
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
)

var synthesisSchema = &llm.Schema{
	Name:        "solution-synthesis",
	Description: "Working steps, key points and key formulas for a solved exam problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"workingSteps": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"keyPoints":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"keyFormulas":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"workingSteps", "keyPoints", "keyFormulas"},
		"additionalProperties": false,
	},
	Strict: true,
}

var pitfallSchema = &llm.Schema{
	Name:        "solution-pitfalls",
	Description: "Named mistakes students make on this problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pitfalls": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"pitfalls"},
		"additionalProperties": false,
	},
	Strict: true,
}

const synthesisSystemPrompt = `You write the worked solution summary for an exam problem.

Return only JSON: {"workingSteps": [...], "keyPoints": [...], "keyFormulas": [...]}.
- workingSteps: at most 6 lines, each one concrete calculation or deduction in order, with values and units.
- keyPoints: at most 4 ideas the problem tests, none repeating a working step.
- keyFormulas: the relations used, in symbols.
- No study advice such as "read the question carefully" or "check your units".`

const pitfallSystemPrompt = `You list the mistakes students commonly make on an exam problem.

Return only JSON: {"pitfalls": [...]} with at most 5 entries.
- Name each mistake as what goes wrong, e.g. "Using the total speed instead of its vertical component".
- Do not write instructions or steps; never start an entry with a verb like "use" or "calculate".
- No generic study advice.`

func synthesisRequest(in Input) llm.Request {
	return llm.Request{
		System:      synthesisSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildMessage(in)}},
		Schema:      synthesisSchema,
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

func pitfallRequest(in Input) llm.Request {
	return llm.Request{
		System:      pitfallSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildMessage(in)}},
		Schema:      pitfallSchema,
		MaxTokens:   512,
		Temperature: 0.4,
	}
}

func buildMessage(in Input) string {
	var b strings.Builder
	if ctx := strings.Join(strings.Fields(in.Syllabus+" "+in.Level+" "+in.Subject), " "); ctx != "" {
		fmt.Fprintf(&b, "Context: %s\n", ctx)
	}
	if in.OriginalText != "" {
		fmt.Fprintf(&b, "Problem:\n%s\n", in.OriginalText)
	}
	if len(in.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range in.Steps {
			answer := ""
			if s.CorrectAnswerIndex >= 0 && s.CorrectAnswerIndex < len(s.Options) {
				answer = s.Options[s.CorrectAnswerIndex]
			}
			fmt.Fprintf(&b, "%d. %s -> %s\n", s.Step, s.Question, answer)
		}
	}
	base := in.Baseline
	if base.FinalAnswer != "" {
		fmt.Fprintf(&b, "\nFinal answer: %s %s\n", base.FinalAnswer, base.Unit)
	}
	if len(base.WorkingSteps) > 0 {
		fmt.Fprintf(&b, "Draft working:\n- %s\n", strings.Join(base.WorkingSteps, "\n- "))
	}
	return b.String()
}
