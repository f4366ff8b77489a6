package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// submitCandidate builds the analyze request for one API shape.
type submitCandidate struct {
	name  string
	build func(ctx context.Context, endpoint, mimeType string, data []byte) (*http.Request, error)
}

// analyzeCandidates are tried in order; the first 2xx submission wins.
var analyzeCandidates = []submitCandidate{
	{name: "documentintelligence", build: buildDocumentIntelligenceRequest},
	{name: "formrecognizer", build: buildFormRecognizerRequest},
}

func buildDocumentIntelligenceRequest(ctx context.Context, endpoint, _ string, data []byte) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{
		"base64Source": base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, err
	}
	u := endpoint + "/documentintelligence/documentModels/prebuilt-read:analyze?api-version=2024-11-30"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func buildFormRecognizerRequest(ctx context.Context, endpoint, mimeType string, data []byte) (*http.Request, error) {
	u := endpoint + "/formrecognizer/documentModels/prebuilt-read:analyze?api-version=2023-07-31"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", mimeType)
	return req, nil
}

// Poller submits payloads to an Azure Document Intelligence resource and
// polls the returned operation until it reaches a terminal state.
type Poller struct {
	endpoint   string
	key        string
	httpClient *http.Client
	interval   time.Duration
	maxWait    time.Duration
}

// NewPoller creates a Poller. Zero timings fall back to the defaults.
func NewPoller(cfg AzureConfig, interval, maxWait time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Poller{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		key:        cfg.Key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		interval:   interval,
		maxWait:    maxWait,
	}
}

// Recognize runs one recognition job. The wait is bounded by the poller's
// maximum wait only; cancelling ctx does not abort a job in flight.
func (p *Poller) Recognize(ctx context.Context, mimeType string, data []byte) (*Job, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.maxWait)
	defer cancel()

	job := &Job{
		ContentHash: ContentHash(mimeType, data),
		Status:      StatusSubmitted,
		Provider:    "azure",
	}

	opURL, err := p.submit(ctx, mimeType, data)
	if err != nil {
		job.Status = StatusFailed
		return job, err
	}

	job.Status = StatusPolling
	result, err := p.poll(ctx, opURL)
	if err != nil {
		var timeout *ErrTimeout
		if errors.As(err, &timeout) {
			job.Status = StatusTimedOut
		} else {
			job.Status = StatusFailed
		}
		return job, err
	}

	job.Status = StatusSucceeded
	job.ResultText, job.PageCount = result.text()
	return job, nil
}

// submit posts the payload to each candidate in order and returns the
// operation URL of the first accepted submission.
func (p *Poller) submit(ctx context.Context, mimeType string, data []byte) (string, error) {
	var lastErr error
	for _, c := range analyzeCandidates {
		req, err := c.build(ctx, p.endpoint, mimeType, data)
		if err != nil {
			return "", fmt.Errorf("build %s request: %w", c.name, err)
		}
		req.Header.Set(subscriptionKeyHeader, p.key)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("submit %s: %w", c.name, err)
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = &ErrUpstream{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			continue
		}

		opURL := resp.Header.Get("Operation-Location")
		if opURL == "" {
			return "", &ErrProtocol{Reason: fmt.Sprintf("%s response has no Operation-Location header", c.name)}
		}
		return opURL, nil
	}
	return "", lastErr
}

// poll reads the operation status every interval until the job is
// terminal or ctx expires. Transport errors, 429 and 5xx status reads are
// retried; any other non-2xx read ends the job as *ErrUpstream.
func (p *Poller) poll(ctx context.Context, opURL string) (*analyzeResult, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, &ErrTimeout{After: p.maxWait}
		case <-ticker.C:
		}

		op, err := p.status(ctx, opURL)
		if err != nil {
			if permanent(err) {
				return nil, err
			}
			continue
		}
		switch strings.ToLower(op.Status) {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return &analyzeResult{}, nil
			}
			return op.AnalyzeResult, nil
		case "failed":
			detail := string(op.Error)
			if len(op.Error) == 0 {
				detail = "no error detail"
			}
			return nil, &ErrJobFailed{Detail: detail}
		}
	}
}

func (p *Poller) status(ctx context.Context, opURL string) (*analyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(subscriptionKeyHeader, p.key)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &ErrUpstream{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var op analyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &op, nil
}

// permanent reports whether a status read failure will not go away by
// polling again.
func permanent(err error) bool {
	var up *ErrUpstream
	if !errors.As(err, &up) {
		return false
	}
	return up.Status != http.StatusTooManyRequests && up.Status < 500
}

type analyzeOperation struct {
	Status        string          `json:"status"`
	Error         json.RawMessage `json:"error,omitempty"`
	AnalyzeResult *analyzeResult  `json:"analyzeResult,omitempty"`
}

// analyzeResult covers both result schemas: pages[].lines[].content from
// the current API and readResults[].lines[].text from the legacy one.
type analyzeResult struct {
	Pages []struct {
		Lines []struct {
			Content string `json:"content"`
		} `json:"lines"`
	} `json:"pages"`
	ReadResults []struct {
		Lines []struct {
			Text string `json:"text"`
		} `json:"lines"`
	} `json:"readResults"`
}

// text joins lines in reading order, one line per row and a blank line
// between pages.
func (r *analyzeResult) text() (string, int) {
	var pages []string
	if len(r.Pages) > 0 {
		for _, pg := range r.Pages {
			lines := make([]string, 0, len(pg.Lines))
			for _, l := range pg.Lines {
				lines = append(lines, l.Content)
			}
			pages = append(pages, strings.Join(lines, "\n"))
		}
	} else {
		for _, pg := range r.ReadResults {
			lines := make([]string, 0, len(pg.Lines))
			for _, l := range pg.Lines {
				lines = append(lines, l.Text)
			}
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(pages, "\n\n"), len(pages)
}
