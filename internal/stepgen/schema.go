package stepgen

import "github.com/oliveripkanam/K30-Creator-sub000/internal/llm"

var stringArray = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// StepsSchema is the output contract for step generation. Counts and
// option shape are enforced by Repair, not by the schema, so a short
// answer still validates and gets padded.
var StepsSchema = &llm.Schema{
	Name:        "mcq-steps",
	Description: "Numbered multiple-choice steps leading to the solution, plus a solution summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mcqs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"step":     map[string]any{"type": "integer"},
						"question": map[string]any{"type": "string", "description": "One sub-question of the problem"},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correctAnswerIndex": map[string]any{
							"description": "Zero-based index of the correct option",
						},
						"hint":        map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
						"calculationStep": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"formula":      map[string]any{"type": "string"},
								"substitution": map[string]any{"type": "string"},
								"result":       map[string]any{"type": "string"},
							},
						},
					},
					"required": []any{"question", "options", "correctAnswerIndex"},
				},
			},
			"solution": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"finalAnswer":  map[string]any{"description": "The final answer; a string is preferred"},
					"unit":         map[string]any{"type": "string"},
					"workingSteps": stringArray,
					"keyFormulas":  stringArray,
					"keyPoints":    stringArray,
					"pitfalls":     stringArray,
				},
			},
		},
		"required": []any{"mcqs", "solution"},
	},
}
