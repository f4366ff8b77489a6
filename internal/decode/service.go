// Package decode runs the full pipeline from a submitted problem to a
// validated step sequence with its solution summary.
package decode

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/hints"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/profile"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/synthesis"
)

var tracer = otel.Tracer("github.com/oliveripkanam/K30-Creator-sub000/internal/decode")

// Upload is one decoded image or document.
type Upload struct {
	MimeType string
	Data     []byte
}

// Request is a problem submitted for decoding.
type Request struct {
	Text     string
	Images   []Upload
	Marks    int
	Subject  string
	Syllabus string
	Level    string
}

// Response is the decoded step sequence.
type Response struct {
	MCQs     []stepgen.Step   `json:"mcqs"`
	Solution stepgen.Solution `json:"solution"`
	Source   stepgen.Source   `json:"source,omitempty"`
	Usage    *llm.Usage       `json:"usage,omitempty"`
}

// Deps are the pipeline stages. Recognizer may be nil when uploads are
// not supported; Generator, Hints and Synthesizer are required.
type Deps struct {
	Recognizer  recognition.Recognizer
	Generator   *stepgen.Generator
	Hints       *hints.Engine
	Refiner     *hints.Refiner
	Synthesizer *synthesis.Synthesizer
	Log         *logger.Logger
}

// Service runs decode requests and the standalone pipeline stages.
type Service struct {
	recognizer recognition.Recognizer
	generator  *stepgen.Generator
	hints      *hints.Engine
	refiner    *hints.Refiner
	synth      *synthesis.Synthesizer
	log        *logger.Logger
}

// New creates a Service.
func New(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Hints == nil {
		d.Hints = hints.NewEngine()
	}
	if d.Refiner == nil {
		d.Refiner = hints.NewRefiner(nil, d.Hints, d.Log)
	}
	if d.Synthesizer == nil {
		d.Synthesizer = synthesis.New(nil, synthesis.DefaultConfig(), d.Log)
	}
	if d.Generator == nil {
		d.Generator = stepgen.New(nil, stepgen.DefaultConfig(), d.Log)
	}
	return &Service{
		recognizer: d.Recognizer,
		generator:  d.Generator,
		hints:      d.Hints,
		refiner:    d.Refiner,
		synth:      d.Synthesizer,
		log:        d.Log,
	}
}

// Decode validates the request, recognizes any uploads, generates and
// repairs the steps, finalizes their hints and enriches the solution.
// Only input, configuration and recognition errors are returned.
func (s *Service) Decode(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "decode.Decode", trace.WithAttributes(
		attribute.Int("k30.marks", req.Marks),
		attribute.Int("k30.images", len(req.Images)),
	))
	defer span.End()

	resp, err := s.decode(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (s *Service) decode(ctx context.Context, req Request) (*Response, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	text, err := s.problemText(ctx, req)
	if err != nil {
		return nil, err
	}

	q := stepgen.Question{
		RawContent:    strings.TrimSpace(req.Text),
		ExtractedText: text,
		Marks:         stepgen.ClampMarks(req.Marks),
		SourceType:    sourceType(req),
		Subject:       req.Subject,
		Syllabus:      req.Syllabus,
		Level:         req.Level,
	}
	if q.RawContent == "" {
		q.RawContent = fmt.Sprintf("%d uploaded page(s)", len(req.Images))
	}
	prof := profile.Resolve(req.Syllabus, req.Level)

	genCtx, genSpan := tracer.Start(ctx, "decode.generate", trace.WithAttributes(attribute.String("k30.profile", prof.Key)))
	res, err := s.generator.Generate(genCtx, q, prof)
	if err != nil {
		genSpan.RecordError(err)
		genSpan.End()
		return nil, err
	}
	genSpan.SetAttributes(attribute.String("k30.source", string(res.Source)), attribute.Int("k30.steps", len(res.Steps)))
	genSpan.End()

	_, hintSpan := tracer.Start(ctx, "decode.hints")
	steps := s.hints.Apply(res.Steps, hints.Context{
		Header:       strings.TrimSpace(prof.Board + " " + prof.Level + " " + req.Subject),
		OriginalText: text,
		Subject:      req.Subject,
	})
	hintSpan.End()

	synthCtx, synthSpan := tracer.Start(ctx, "decode.synthesize")
	enriched := s.synth.Synthesize(synthCtx, synthesis.Input{
		Subject:      req.Subject,
		Syllabus:     req.Syllabus,
		Level:        req.Level,
		OriginalText: text,
		Steps:        steps,
		Baseline:     res.Solution,
	})
	synthSpan.SetAttributes(
		attribute.Bool("k30.synthesis_degraded", enriched.Degraded.Synthesis),
		attribute.Bool("k30.pitfalls_degraded", enriched.Degraded.Pitfalls),
	)
	synthSpan.End()

	usage := res.Usage.Add(enriched.Usage)
	s.log.Info("decode complete",
		"marks", q.Marks,
		"source", res.Source,
		"profile", prof.Key,
		"total_tokens", usage.TotalTokens,
	)

	return &Response{
		MCQs:     steps,
		Solution: enriched.Apply(res.Solution),
		Source:   res.Source,
		Usage:    &usage,
	}, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.Text) == "" && len(req.Images) == 0 {
		return &ErrInput{Field: "text", Message: "text or at least one image is required"}
	}
	for i, img := range req.Images {
		if len(img.Data) == 0 {
			return &ErrInput{Field: fmt.Sprintf("images[%d]", i), Message: "image data is empty"}
		}
	}
	return nil
}

// problemText joins the typed text with the recognized text of every
// upload, separated by blank lines.
func (s *Service) problemText(ctx context.Context, req Request) (string, error) {
	parts := make([]string, 0, len(req.Images)+1)
	if t := strings.TrimSpace(req.Text); t != "" {
		parts = append(parts, t)
	}
	for i, img := range req.Images {
		job, err := s.Extract(ctx, img.MimeType, img.Data)
		if err != nil {
			return "", fmt.Errorf("recognize image %d: %w", i+1, err)
		}
		if t := strings.TrimSpace(job.ResultText); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, "\n\n")
	if text == "" {
		return "", &ErrInput{Field: "images", Message: "no text could be recognized in the uploads"}
	}
	return text, nil
}

func sourceType(req Request) stepgen.SourceType {
	if len(req.Images) == 0 {
		return stepgen.SourceText
	}
	for _, img := range req.Images {
		if !strings.HasPrefix(strings.ToLower(img.MimeType), "image/") {
			return stepgen.SourceFile
		}
	}
	return stepgen.SourcePhoto
}

// Extract recognizes the text of one upload.
func (s *Service) Extract(ctx context.Context, mimeType string, data []byte) (*recognition.Job, error) {
	if s.recognizer == nil {
		return nil, &llm.ErrConfiguration{Field: "recognition provider", Err: fmt.Errorf("no recognizer configured")}
	}
	if len(data) == 0 {
		return nil, &ErrInput{Field: "fileBase64", Message: "file data is empty"}
	}

	ctx, span := tracer.Start(ctx, "decode.recognize", trace.WithAttributes(
		attribute.String("k30.mime_type", mimeType),
		attribute.Int("k30.bytes", len(data)),
	))
	defer span.End()

	job, err := s.recognizer.Recognize(ctx, mimeType, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("k30.cached", job.Cached), attribute.Int("k30.pages", job.PageCount))
	return job, nil
}

// RefineHints runs the oracle-backed hint refiner.
func (s *Service) RefineHints(ctx context.Context, req hints.RefineRequest) []hints.RefinedHint {
	ctx, span := tracer.Start(ctx, "decode.refineHints", trace.WithAttributes(attribute.Int("k30.items", len(req.Items))))
	defer span.End()
	return s.refiner.Refine(ctx, req)
}

// Synthesize enriches a caller-supplied solution.
func (s *Service) Synthesize(ctx context.Context, in synthesis.Input) *synthesis.Output {
	ctx, span := tracer.Start(ctx, "decode.synthesize")
	defer span.End()
	return s.synth.Synthesize(ctx, in)
}
