package synthesis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
)

func baselineInput() Input {
	return Input{
		Subject:      "Physics",
		Syllabus:     "AQA",
		Level:        "A-Level",
		OriginalText: "A ball is thrown horizontally from a 20m cliff at 15 m/s",
		Baseline: stepgen.Solution{
			FinalAnswer:  "30.3 m",
			WorkingSteps: []string{"t = √(2h/g) → √(2×20/9.81) → 2.02 s"},
			KeyPoints:    []string{"Horizontal and vertical motion are independent"},
			KeyFormulas:  []string{"s = ut + ½at²"},
			Pitfalls:     []string{"Using 15 m/s in the vertical equation"},
		},
	}
}

// bySchema answers synthesis and pitfall requests independently.
func bySchema(synth, pitfalls llm.MockResponse) *llm.MockProvider {
	return llm.NewMockProviderFunc(func(req llm.Request) llm.MockResponse {
		if req.Schema != nil && req.Schema.Name == pitfallSchema.Name {
			return pitfalls
		}
		return synth
	})
}

func TestSynthesize_BothSucceed(t *testing.T) {
	mock := bySchema(
		llm.MockResponse{
			Content: []byte(`{
				"workingSteps": ["1. t = √(2h/g) = 2.02 s", "R = ut = 15 × 2.02 = 30.3 m", "r = UT = 15 × 2.02 = 30.3 m", "Check your units at the end"],
				"keyPoints": ["R = ut = 15 × 2.02 = 30.3 m", "Horizontal velocity is constant", "Read the question carefully"],
				"keyFormulas": ["R = ut", "R = ut"]
			}`),
			Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
		},
		llm.MockResponse{
			Content: []byte(`{"pitfalls": ["Using the launch speed as the vertical velocity", "Calculate the time first", "Forgetting that g acts only vertically"]}`),
			Usage:   llm.Usage{InputTokens: 7, OutputTokens: 3, TotalTokens: 10},
		},
	)

	out := New(mock, DefaultConfig(), nil).Synthesize(context.Background(), baselineInput())

	assert.Equal(t, []string{"t = √(2h/g) = 2.02 s", "R = ut = 15 × 2.02 = 30.3 m"}, out.WorkingSteps)
	assert.Equal(t, []string{"Horizontal velocity is constant"}, out.KeyPoints)
	assert.Equal(t, []string{"R = ut"}, out.KeyFormulas)
	assert.Equal(t, []string{"Using the launch speed as the vertical velocity", "Forgetting that g acts only vertically"}, out.Pitfalls)
	assert.Equal(t, llm.Usage{InputTokens: 17, OutputTokens: 8, TotalTokens: 25}, out.Usage)
	assert.False(t, out.Degraded.Synthesis)
	assert.False(t, out.Degraded.Pitfalls)
	assert.Equal(t, 2, mock.CallCount())
}

func TestSynthesize_SynthesisTimeoutKeepsBaseline(t *testing.T) {
	mock := bySchema(
		llm.MockResponse{Content: []byte(`{"workingSteps":["late"],"keyPoints":["late"],"keyFormulas":[]}`), Delay: 2 * time.Second},
		llm.MockResponse{Content: []byte(`{"pitfalls":["Mixing up range and height"]}`)},
	)
	cfg := Config{SynthesisTimeout: 30 * time.Millisecond, PitfallTimeout: time.Second}
	in := baselineInput()

	start := time.Now()
	out := New(mock, cfg, nil).Synthesize(context.Background(), in)
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, in.Baseline.WorkingSteps, out.WorkingSteps)
	assert.Equal(t, in.Baseline.KeyPoints, out.KeyPoints)
	assert.True(t, out.Degraded.Synthesis)
	assert.Equal(t, []string{"Mixing up range and height"}, out.Pitfalls)
	assert.False(t, out.Degraded.Pitfalls)
}

func TestSynthesize_PitfallFailureKeepsBaseline(t *testing.T) {
	mock := bySchema(
		llm.MockResponse{Content: []byte(`{"workingSteps":["R = ut = 30.3 m"],"keyPoints":[],"keyFormulas":[]}`)},
		llm.MockResponse{Err: errors.New("boom")},
	)
	in := baselineInput()

	out := New(mock, DefaultConfig(), nil).Synthesize(context.Background(), in)
	assert.Equal(t, []string{"R = ut = 30.3 m"}, out.WorkingSteps)
	assert.Equal(t, in.Baseline.KeyPoints, out.KeyPoints, "empty oracle list keeps baseline")
	assert.Equal(t, in.Baseline.Pitfalls, out.Pitfalls)
	assert.True(t, out.Degraded.Pitfalls)
}

func TestSynthesize_UnreadableOutput(t *testing.T) {
	mock := bySchema(
		llm.MockResponse{Content: []byte("sorry, I cannot help")},
		llm.MockResponse{Content: []byte(`Sure! {"pitfalls": ["Dropping the minus sign on g"]} hope this helps`)},
	)
	in := baselineInput()

	out := New(mock, DefaultConfig(), nil).Synthesize(context.Background(), in)
	assert.Equal(t, in.Baseline.WorkingSteps, out.WorkingSteps)
	assert.True(t, out.Degraded.Synthesis)
	assert.Equal(t, []string{"Dropping the minus sign on g"}, out.Pitfalls)
}

func TestSynthesize_NilProvider(t *testing.T) {
	in := baselineInput()
	in.Baseline.Pitfalls = nil

	out := New(nil, DefaultConfig(), nil).Synthesize(context.Background(), in)
	assert.Equal(t, in.Baseline.WorkingSteps, out.WorkingSteps)
	require.NotNil(t, out.Pitfalls)
	assert.Empty(t, out.Pitfalls)
	assert.Equal(t, llm.Usage{}, out.Usage)
}

func TestSynthesize_Caps(t *testing.T) {
	mock := bySchema(
		llm.MockResponse{Content: []byte(`{
			"workingSteps": ["a1","a2","a3","a4","a5","a6","a7","a8"],
			"keyPoints": ["k1","k2","k3","k4","k5"],
			"keyFormulas": []
		}`)},
		llm.MockResponse{Content: []byte(`{"pitfalls": ["p1","p2","p3","p4","p5","p6","p7"]}`)},
	)
	out := New(mock, DefaultConfig(), nil).Synthesize(context.Background(), baselineInput())
	assert.Len(t, out.WorkingSteps, MaxWorkingSteps)
	assert.Len(t, out.KeyPoints, MaxKeyPoints)
	assert.Len(t, out.Pitfalls, MaxPitfalls)
}

func TestOutputApply(t *testing.T) {
	sol := stepgen.Solution{FinalAnswer: "30.3 m", Unit: "m"}
	out := &Output{WorkingSteps: []string{"w"}, KeyPoints: []string{"k"}, KeyFormulas: []string{"f"}, Pitfalls: []string{"p"}}
	got := out.Apply(sol)
	assert.Equal(t, "30.3 m", got.FinalAnswer)
	assert.Equal(t, []string{"w"}, got.WorkingSteps)
	assert.Equal(t, []string{"p"}, got.Pitfalls)
}
