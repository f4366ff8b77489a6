package recognition

import (
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/cache"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func line(start, end int64) *documentaipb.Document_Page_Line {
	return &documentaipb.Document_Page_Line{
		Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(start, end)},
	}
}

func TestGoogleRecognizer_Recognize(t *testing.T) {
	full := "Question 1\nA cart moves.\nQuestion 2\n"
	var got *documentaipb.ProcessRequest
	g := &GoogleRecognizer{
		name: "projects/p/locations/us/processors/ocr",
		process: func(_ context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
			got = req
			return &documentaipb.ProcessResponse{Document: &documentaipb.Document{
				Text: full,
				Pages: []*documentaipb.Document_Page{
					{Lines: []*documentaipb.Document_Page_Line{line(0, 11), line(11, 25)}},
					{Lines: []*documentaipb.Document_Page_Line{line(25, 36)}},
				},
			}}, nil
		},
	}

	job, err := g.Recognize(context.Background(), "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/us/processors/ocr", got.GetName())
	assert.Equal(t, "application/pdf", got.GetRawDocument().GetMimeType())
	assert.Equal(t, "Question 1\nA cart moves.\n\nQuestion 2", job.ResultText)
	assert.Equal(t, 2, job.PageCount)
	assert.Equal(t, StatusSucceeded, job.Status)
	assert.Equal(t, "google", job.Provider)
}

func TestGoogleRecognizer_Error(t *testing.T) {
	g := &GoogleRecognizer{
		name: "projects/p/locations/us/processors/ocr",
		process: func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
			return nil, errors.New("permission denied")
		},
	}
	job, err := g.Recognize(context.Background(), "image/png", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, StatusFailed, job.Status)
}

func TestGoogleRecognizer_ClosedThroughDecorators(t *testing.T) {
	var closed int
	g := &GoogleRecognizer{
		name:  "projects/p/locations/us/processors/ocr",
		close: func() error { closed++; return nil },
	}

	var rec Recognizer = WithEvents(WithCache(g, cache.NewMemory(4), 0, nil), "google", nil, nil)
	c, ok := rec.(io.Closer)
	require.True(t, ok)
	require.NoError(t, c.Close())
	assert.Equal(t, 1, closed)

	poller := WithEvents(NewPoller(AzureConfig{Endpoint: "http://x", Key: "k"}, 0, 0), "azure", nil, nil)
	assert.NoError(t, poller.Close())
}

func TestDocumentText_FlatFallback(t *testing.T) {
	text, pages := documentText(&documentaipb.Document{Text: "plain text"})
	assert.Equal(t, "plain text", text)
	assert.Equal(t, 0, pages)
}

func TestProcessorName(t *testing.T) {
	assert.Equal(t, "projects/p/locations/eu/processors/x", processorName("p", "eu", "x", ""))
	assert.Equal(t, "projects/p/locations/eu/processors/x/processorVersions/v2", processorName(" p ", "eu", "x", "v2"))
	assert.Empty(t, processorName("", "eu", "x", ""))
}
