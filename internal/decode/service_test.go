package decode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/hints"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/synthesis"
)

const cliffProblem = "A ball is thrown horizontally from a 20m cliff at 15 m/s"

type fakeRecognizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, mimeType string, data []byte) (*recognition.Job, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &recognition.Job{
		ContentHash: recognition.ContentHash(mimeType, data),
		Status:      recognition.StatusSucceeded,
		ResultText:  f.text,
		PageCount:   1,
	}, nil
}

func assertValidHints(t *testing.T, steps []stepgen.Step) {
	t.Helper()
	contrast := 0
	for _, s := range steps {
		assert.True(t, strings.HasPrefix(s.Hint, hints.Prefix), "hint %q", s.Hint)
		wc := hints.WordCount(s.Hint)
		assert.True(t, wc >= hints.MinWords && wc <= hints.MaxWords, "hint %q has %d words", s.Hint, wc)
		if hints.HasContrast(s.Hint) {
			contrast++
		}
	}
	assert.LessOrEqual(t, contrast, len(steps)/3)
}

func TestDecode_TextProblem(t *testing.T) {
	svc := New(Deps{})

	resp, err := svc.Decode(context.Background(), Request{Text: cliffProblem, Marks: 3})
	require.NoError(t, err)

	require.Len(t, resp.MCQs, 3)
	for i, s := range resp.MCQs {
		assert.Equal(t, i+1, s.Step)
		assert.Len(t, s.Options, 4)
	}
	assert.NotEmpty(t, resp.Solution.FinalAnswer)
	assert.Contains(t, resp.Solution.FinalAnswer, "30.3")
	assert.GreaterOrEqual(t, len(resp.Solution.WorkingSteps), 1)
	assert.Equal(t, stepgen.SourceFallback, resp.Source)
	assertValidHints(t, resp.MCQs)
}

func TestDecode_MarksClamped(t *testing.T) {
	svc := New(Deps{})

	resp, err := svc.Decode(context.Background(), Request{Text: cliffProblem, Marks: 12})
	require.NoError(t, err)
	assert.Len(t, resp.MCQs, stepgen.MaxMarks)
	assertValidHints(t, resp.MCQs)

	resp, err = svc.Decode(context.Background(), Request{Text: cliffProblem, Marks: 0})
	require.NoError(t, err)
	assert.Len(t, resp.MCQs, stepgen.MinMarks)
}

func TestDecode_InputErrors(t *testing.T) {
	svc := New(Deps{Recognizer: &fakeRecognizer{text: "x"}})

	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"nothing submitted", Request{Text: "   ", Marks: 3}, "text"},
		{"empty image", Request{Images: []Upload{{MimeType: "image/png"}}, Marks: 3}, "images[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decode(context.Background(), tt.req)
			var inErr *ErrInput
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, tt.field, inErr.Field)
		})
	}
}

func TestDecode_ImagesJoinedWithText(t *testing.T) {
	rec := &fakeRecognizer{text: "The cliff is 20 m high."}
	gen := llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")})
	svc := New(Deps{
		Recognizer: rec,
		Generator:  stepgen.New(gen, stepgen.DefaultConfig(), nil),
	})

	resp, err := svc.Decode(context.Background(), Request{
		Text:   cliffProblem,
		Images: []Upload{{MimeType: "image/png", Data: []byte("a")}, {MimeType: "image/jpeg", Data: []byte("b")}},
		Marks:  2,
	})
	require.NoError(t, err)
	assert.Len(t, resp.MCQs, 2)
	assert.Equal(t, 2, rec.calls)

	require.Equal(t, 1, gen.CallCount())
	msg := gen.Calls[0].Messages[0].Content
	assert.Contains(t, msg, cliffProblem+"\n\nThe cliff is 20 m high.\n\nThe cliff is 20 m high.")
}

func TestDecode_ImageWithoutRecognizer(t *testing.T) {
	svc := New(Deps{})
	_, err := svc.Decode(context.Background(), Request{Images: []Upload{{MimeType: "image/png", Data: []byte("a")}}, Marks: 2})
	var cfgErr *llm.ErrConfiguration
	require.ErrorAs(t, err, &cfgErr)
}

func TestDecode_RecognitionErrorSurfaced(t *testing.T) {
	svc := New(Deps{Recognizer: &fakeRecognizer{err: &recognition.ErrUpstream{Status: 401, Body: "denied"}}})
	_, err := svc.Decode(context.Background(), Request{Images: []Upload{{MimeType: "application/pdf", Data: []byte("%PDF")}}, Marks: 2})

	var up *recognition.ErrUpstream
	require.ErrorAs(t, err, &up)
	assert.Equal(t, 401, up.Status)
}

func TestDecode_NothingRecognized(t *testing.T) {
	svc := New(Deps{Recognizer: &fakeRecognizer{text: "  "}})
	_, err := svc.Decode(context.Background(), Request{Images: []Upload{{MimeType: "image/png", Data: []byte("a")}}, Marks: 2})
	var inErr *ErrInput
	require.ErrorAs(t, err, &inErr)
}

func TestDecode_SynthesisTimeoutKeepsBaseline(t *testing.T) {
	slow := llm.NewMockProviderFunc(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: []byte(`{"workingSteps":["late"],"keyPoints":["late"],"keyFormulas":[],"pitfalls":[]}`), Delay: 2 * time.Second}
	})
	svc := New(Deps{
		Synthesizer: synthesis.New(slow, synthesis.Config{SynthesisTimeout: 20 * time.Millisecond, PitfallTimeout: 20 * time.Millisecond}, nil),
	})

	resp, err := svc.Decode(context.Background(), Request{Text: cliffProblem, Marks: 3})
	require.NoError(t, err)

	baseline := stepgen.Fallback(stepgen.Question{RawContent: cliffProblem, ExtractedText: cliffProblem, Marks: 3}).Solution
	assert.Equal(t, baseline.WorkingSteps, resp.Solution.WorkingSteps)
	assert.Equal(t, baseline.KeyPoints, resp.Solution.KeyPoints)
	assert.Equal(t, 2, slow.CallCount())
}

func TestExtract(t *testing.T) {
	rec := &fakeRecognizer{text: "Q1 A car accelerates"}
	svc := New(Deps{Recognizer: rec})

	job, err := svc.Extract(context.Background(), "application/pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "Q1 A car accelerates", job.ResultText)

	_, err = svc.Extract(context.Background(), "application/pdf", nil)
	var inErr *ErrInput
	require.ErrorAs(t, err, &inErr)
}

func TestSourceType(t *testing.T) {
	assert.Equal(t, stepgen.SourceText, sourceType(Request{Text: "x"}))
	assert.Equal(t, stepgen.SourcePhoto, sourceType(Request{Images: []Upload{{MimeType: "image/png"}}}))
	assert.Equal(t, stepgen.SourceFile, sourceType(Request{Images: []Upload{{MimeType: "image/png"}, {MimeType: "application/pdf"}}}))
}
