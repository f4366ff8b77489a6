package stepgen

import (
	"fmt"
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/profile"
)

const systemPrompt = `You turn exam questions into a guided sequence of multiple-choice steps.

Rules:
- Return only JSON with "mcqs" and "solution". No prose, no code fences.
- Produce exactly the requested number of steps, numbered from 1, each one moving the student closer to the final answer.
- Every step has exactly 4 options with exactly one correct; distractors follow the board's distractor style.
- correctAnswerIndex is the zero-based index of the correct option.
- A hint names the governing idea without giving away the option; 11 to 18 words.
- For calculation steps fill calculationStep with the formula, the substitution and the result with units.
- solution.finalAnswer is a single string with the value and unit; workingSteps are short imperative lines.
- Use plain text math: ^ for powers, / for division, sqrt() for roots.`

// buildUserMessage renders the problem, its profile and the step count.
func buildUserMessage(q Question, p profile.Profile, steps int) string {
	var b strings.Builder

	if q.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", q.Subject)
	}
	b.WriteString(p.PromptBlock())
	fmt.Fprintf(&b, "\nMarks: %d\n", steps)
	fmt.Fprintf(&b, "Mark guidance: %s\n", profile.MarkGuidance(steps))
	fmt.Fprintf(&b, "Steps required: exactly %d\n", steps)

	b.WriteString("\nProblem:\n")
	b.WriteString(q.Text())
	return b.String()
}
