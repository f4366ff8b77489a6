// Package synthesis enriches a baseline solution with oracle-written
// working steps, key points and pitfalls. Each enrichment call is time
// boxed on its own and falls back to the baseline fields it covers.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
)

// Default time boxes for the two enrichment calls.
const (
	DefaultSynthesisTimeout = 4500 * time.Millisecond
	DefaultPitfallTimeout   = 3500 * time.Millisecond
)

// List caps applied to oracle output.
const (
	MaxWorkingSteps = 6
	MaxKeyPoints    = 4
	MaxPitfalls     = 5
)

// Input is the problem context plus the caller's baseline solution.
type Input struct {
	Subject      string
	Syllabus     string
	Level        string
	OriginalText string
	Steps        []stepgen.Step
	Baseline     stepgen.Solution
}

// Degraded records which calls fell back to the baseline.
type Degraded struct {
	Synthesis bool `json:"synthesis"`
	Pitfalls  bool `json:"pitfalls"`
}

// Output is the enriched solution.
type Output struct {
	WorkingSteps []string  `json:"workingSteps"`
	KeyPoints    []string  `json:"keyPoints"`
	KeyFormulas  []string  `json:"keyFormulas"`
	Pitfalls     []string  `json:"pitfalls"`
	Usage        llm.Usage `json:"usage"`
	Degraded     Degraded  `json:"degraded"`
}

// Apply copies the enriched lists onto sol.
func (o *Output) Apply(sol stepgen.Solution) stepgen.Solution {
	sol.WorkingSteps = o.WorkingSteps
	sol.KeyPoints = o.KeyPoints
	sol.KeyFormulas = o.KeyFormulas
	sol.Pitfalls = o.Pitfalls
	return sol
}

// Config holds the per-call time boxes.
type Config struct {
	SynthesisTimeout time.Duration `yaml:"synthesis_timeout"`
	PitfallTimeout   time.Duration `yaml:"pitfall_timeout"`
}

// DefaultConfig returns the default time boxes.
func DefaultConfig() Config {
	return Config{
		SynthesisTimeout: DefaultSynthesisTimeout,
		PitfallTimeout:   DefaultPitfallTimeout,
	}
}

// Synthesizer runs the two enrichment calls.
type Synthesizer struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Synthesizer. A nil provider returns the baseline.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Synthesizer {
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = DefaultSynthesisTimeout
	}
	if cfg.PitfallTimeout <= 0 {
		cfg.PitfallTimeout = DefaultPitfallTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Synthesizer{provider: provider, config: cfg, log: log}
}

type synthesisResult struct {
	WorkingSteps []string `json:"workingSteps"`
	KeyPoints    []string `json:"keyPoints"`
	KeyFormulas  []string `json:"keyFormulas"`
}

type pitfallResult struct {
	Pitfalls []string `json:"pitfalls"`
}

// Synthesize issues both calls concurrently and waits for both to settle.
// It never fails: a branch that errors, times out or returns unreadable
// JSON leaves its fields at the baseline.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) *Output {
	base := in.Baseline
	out := &Output{
		WorkingSteps: orEmpty(base.WorkingSteps),
		KeyPoints:    orEmpty(base.KeyPoints),
		KeyFormulas:  orEmpty(base.KeyFormulas),
		Pitfalls:     orEmpty(base.Pitfalls),
		Degraded:     Degraded{Synthesis: true, Pitfalls: true},
	}
	if s.provider == nil {
		return out
	}

	var (
		synth        *synthesisResult
		pits         *pitfallResult
		synthUsage   llm.Usage
		pitfallUsage llm.Usage
	)

	var g errgroup.Group
	g.Go(func() error {
		var r synthesisResult
		usage, err := s.call(ctx, llm.PurposeWorkingSteps, s.config.SynthesisTimeout, synthesisRequest(in), &r)
		synthUsage = usage
		if err != nil {
			s.log.Warn("working steps synthesis degraded to baseline", "error", err)
			return nil
		}
		synth = &r
		return nil
	})
	g.Go(func() error {
		var r pitfallResult
		usage, err := s.call(ctx, llm.PurposePitfalls, s.config.PitfallTimeout, pitfallRequest(in), &r)
		pitfallUsage = usage
		if err != nil {
			s.log.Warn("pitfall generation degraded to baseline", "error", err)
			return nil
		}
		pits = &r
		return nil
	})
	_ = g.Wait()

	out.Usage = synthUsage.Add(pitfallUsage)

	if synth != nil {
		out.Degraded.Synthesis = false
		if working := filterWorkingSteps(synth.WorkingSteps); len(working) > 0 {
			out.WorkingSteps = working
		}
		// Key points are checked against whichever working steps are returned.
		if points := filterKeyPoints(synth.KeyPoints, out.WorkingSteps); len(points) > 0 {
			out.KeyPoints = points
		}
		if formulas := dedupe(dropGeneric(clean(synth.KeyFormulas))); len(formulas) > 0 {
			out.KeyFormulas = formulas
		}
	}
	if pits != nil {
		out.Degraded.Pitfalls = false
		if p := filterPitfalls(pits.Pitfalls); len(p) > 0 {
			out.Pitfalls = p
		}
	}
	return out
}

// call runs one oracle request under its own deadline and decodes the
// salvaged JSON into v.
func (s *Synthesizer) call(ctx context.Context, purpose string, timeout time.Duration, req llm.Request, v any) (llm.Usage, error) {
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, purpose), timeout)
	defer cancel()

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return llm.Usage{}, err
	}
	raw, ok := llm.SalvageJSON(string(resp.Content))
	if !ok {
		return resp.Usage, fmt.Errorf("%s: no JSON object in output", purpose)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return resp.Usage, fmt.Errorf("%s: decode output: %w", purpose, err)
	}
	return resp.Usage, nil
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
