// Package recognition turns scanned pages and documents into text.
package recognition

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Status is the lifecycle state of a recognition job.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusPolling   Status = "polling"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timedOut"
)

// Job is the outcome of recognizing one payload.
type Job struct {
	ContentHash string `json:"contentHash"`
	Status      Status `json:"status"`
	ResultText  string `json:"text"`
	PageCount   int    `json:"pages,omitempty"`
	Cached      bool   `json:"cached,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// Recognizer extracts text from an image or document payload.
type Recognizer interface {
	Recognize(ctx context.Context, mimeType string, data []byte) (*Job, error)
}

// ContentHash identifies a payload: hex SHA-256 over the MIME type, a
// zero byte, and the raw bytes.
func ContentHash(mimeType string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(mimeType))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// closeInner closes r when it holds a connection.
func closeInner(r Recognizer) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
