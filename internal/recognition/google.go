package recognition

import (
	"context"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)

// GoogleRecognizer extracts text with a Document AI processor.
type GoogleRecognizer struct {
	name    string
	process processFunc
	close   func() error
}

// NewGoogleRecognizer dials the regional Document AI endpoint for cfg.
func NewGoogleRecognizer(ctx context.Context, cfg GoogleConfig) (*GoogleRecognizer, error) {
	name := processorName(cfg.Project, cfg.Location, cfg.Processor, cfg.Version)
	if name == "" {
		return nil, fmt.Errorf("documentai: project, location and processor are required")
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", strings.TrimSpace(cfg.Location))
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	return &GoogleRecognizer{
		name: name,
		process: func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
			return client.ProcessDocument(ctx, req)
		},
		close: client.Close,
	}, nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleRecognizer) Close() error {
	if g == nil || g.close == nil {
		return nil
	}
	return g.close()
}

func (g *GoogleRecognizer) Recognize(ctx context.Context, mimeType string, data []byte) (*Job, error) {
	job := &Job{
		ContentHash: ContentHash(mimeType, data),
		Status:      StatusSubmitted,
		Provider:    "google",
	}

	resp, err := g.process(ctx, &documentaipb.ProcessRequest{
		Name: g.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		job.Status = StatusFailed
		return job, fmt.Errorf("documentai ProcessDocument: %w", err)
	}

	job.Status = StatusSucceeded
	job.ResultText, job.PageCount = documentText(resp.GetDocument())
	return job, nil
}

// documentText rebuilds page text line by line from the text anchors.
// Documents without line layout fall back to the flat text.
func documentText(doc *documentaipb.Document) (string, int) {
	if doc == nil {
		return "", 0
	}
	full := doc.GetText()
	pages := doc.GetPages()
	if len(pages) == 0 {
		return full, 0
	}

	out := make([]string, 0, len(pages))
	for _, pg := range pages {
		lines := make([]string, 0, len(pg.GetLines()))
		for _, l := range pg.GetLines() {
			t := strings.TrimRight(textFromAnchor(full, l.GetLayout().GetTextAnchor()), "\n")
			if t != "" {
				lines = append(lines, t)
			}
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	text := strings.Join(out, "\n\n")
	if strings.TrimSpace(text) == "" {
		text = full
	}
	return text, len(pages)
}

func textFromAnchor(full string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil || len(anchor.TextSegments) == 0 || full == "" {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.TextSegments {
		if seg == nil {
			continue
		}
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > len(full) {
			end = len(full)
		}
		if start >= end {
			continue
		}
		b.WriteString(full[start:end])
	}
	return b.String()
}

func processorName(project, location, processorID, version string) string {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	processorID = strings.TrimSpace(processorID)
	version = strings.TrimSpace(version)

	if project == "" || location == "" || processorID == "" {
		return ""
	}
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
	if version != "" {
		return base + "/processorVersions/" + version
	}
	return base
}

// ClientOptionsFromEnv reads service account credentials from
// GOOGLE_APPLICATION_CREDENTIALS_JSON (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (a file path). With neither set the
// client uses application default credentials.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
