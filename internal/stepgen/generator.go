package stepgen

import (
	"context"
	"errors"
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/profile"
)

// Generator produces validated steps with the oracle, falling back to
// the local generator when the oracle cannot be used.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Generator. A nil provider always uses the fallback.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, config: cfg, log: log}
}

// Generate returns exactly clamp(q.Marks) steps and a solution. Oracle
// errors and unreadable output are absorbed by the fallback generator;
// only configuration errors are returned.
func (g *Generator) Generate(ctx context.Context, q Question, p profile.Profile) (*Result, error) {
	n := ClampMarks(q.Marks)
	q.Marks = n

	if g.provider == nil {
		return Fallback(q), nil
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q, p, n)},
		},
		Schema:      StepsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeSteps), req)
	if err != nil {
		var cfgErr *llm.ErrConfiguration
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		g.log.Warn("step generation failed, using fallback", "error", err, "marks", n)
		return Fallback(q), nil
	}

	out, err := parseStepsOutput(resp.Content)
	if err != nil {
		g.log.Warn("step output unreadable, using fallback", "error", err, "marks", n)
		res := Fallback(q)
		res.Usage = resp.Usage
		return res, nil
	}

	steps := out.steps()
	if problems := Check(steps, n); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, pr := range problems {
			msgs[i] = pr.Error()
		}
		g.log.Debug("repairing steps", "problems", strings.Join(msgs, "; "))
	}
	steps = Repair(steps, n)

	return &Result{
		Steps:    steps,
		Solution: completeSolution(out.Solution.solution(), steps),
		Source:   SourceOracle,
		Usage:    resp.Usage,
	}, nil
}

// completeSolution fills an empty final answer or working list from the
// steps themselves.
func completeSolution(sol Solution, steps []Step) Solution {
	if sol.FinalAnswer == "" {
		for i := len(steps) - 1; i >= 0; i-- {
			s := steps[i]
			if s.IsSynthetic() {
				continue
			}
			if s.CalculationStep != nil && s.CalculationStep.Result != "" {
				sol.FinalAnswer = s.CalculationStep.Result
			} else {
				sol.FinalAnswer = s.Options[s.CorrectAnswerIndex]
			}
			break
		}
	}
	if len(sol.WorkingSteps) == 0 {
		for _, s := range steps {
			if s.IsSynthetic() {
				continue
			}
			switch {
			case s.CalculationStep != nil && s.CalculationStep.Formula != "":
				sol.WorkingSteps = append(sol.WorkingSteps, workingLine(s.CalculationStep))
			case s.Explanation != "":
				sol.WorkingSteps = append(sol.WorkingSteps, s.Explanation)
			}
		}
	}
	return sol
}

func workingLine(c *CalculationStep) string {
	parts := []string{c.Formula}
	if c.Substitution != "" {
		parts = append(parts, c.Substitution)
	}
	if c.Result != "" {
		parts = append(parts, c.Result)
	}
	return strings.Join(parts, " → ")
}
