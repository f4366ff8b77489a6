package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/hints"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRecognizer struct {
	job      *recognition.Job
	err      error
	gotMime  string
	gotBytes []byte
}

func (s *stubRecognizer) Recognize(_ context.Context, mimeType string, data []byte) (*recognition.Job, error) {
	s.gotMime = mimeType
	s.gotBytes = data
	if s.err != nil {
		return nil, s.err
	}
	return s.job, nil
}

func newTestServer(rec recognition.Recognizer) *Server {
	return New(decode.New(decode.Deps{Recognizer: rec}), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestDecodeEndpoint(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodPost, "/api/decode",
		`{"text":"A ball is thrown horizontally from a 20m cliff at 15 m/s","marks":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		MCQs []struct {
			ID                 string   `json:"id"`
			Step               int      `json:"step"`
			Options            []string `json:"options"`
			CorrectAnswerIndex int      `json:"correctAnswerIndex"`
			Hint               string   `json:"hint"`
		} `json:"mcqs"`
		Solution struct {
			FinalAnswer  string   `json:"finalAnswer"`
			WorkingSteps []string `json:"workingSteps"`
		} `json:"solution"`
	}
	decodeJSON(t, w, &body)
	require.Len(t, body.MCQs, 3)
	for i, m := range body.MCQs {
		assert.Equal(t, i+1, m.Step)
		assert.Len(t, m.Options, 4)
		assert.True(t, strings.HasPrefix(m.Hint, hints.Prefix))
	}
	assert.NotEmpty(t, body.Solution.FinalAnswer)
	assert.NotEmpty(t, body.Solution.WorkingSteps)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestDecodeEndpoint_Errors(t *testing.T) {
	s := newTestServer(nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"text":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"no text or images", `{"marks":3}`, http.StatusBadRequest},
		{"bad base64", `{"images":[{"base64":"%%%","mimeType":"image/png"}],"marks":2}`, http.StatusBadRequest},
		{"image without recognizer", `{"images":[{"base64":"aGVsbG8=","mimeType":"image/png"}],"marks":2}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/decode", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var body errorBody
			decodeJSON(t, w, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(nil)
	for _, path := range []string{"/api/decode", "/api/hints", "/api/refine", "/api/extract"} {
		w := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	}

	w := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestHintsEndpoint(t *testing.T) {
	s := newTestServer(nil)
	w := do(t, s, http.MethodPost, "/api/hints", `{
		"header": "AQA A-Level Physics",
		"items": [
			{"id": "a", "question": "Calculate the time of flight.", "options": ["1 s","2 s","3 s","4 s"], "hint": "Hint: think"},
			{"id": "b", "question": "Calculate the time of flight.", "options": ["1 s","2 s","3 s","4 s"], "hint": "Hint: think"}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Hints []hints.RefinedHint `json:"hints"`
	}
	decodeJSON(t, w, &body)
	require.Len(t, body.Hints, 2)
	assert.Equal(t, "a", body.Hints[0].ID)
	assert.NotEqual(t, body.Hints[0].Hint, body.Hints[1].Hint)

	w = do(t, s, http.MethodPost, "/api/hints", `{"header":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefineEndpoint_NoProviderKeepsBaseline(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodPost, "/api/refine", `{
		"subject": "Physics",
		"solution": {"finalAnswer": "30.3 m", "workingSteps": ["R = ut"], "keyPoints": ["Horizontal velocity is constant"]}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		WorkingSteps []string       `json:"workingSteps"`
		KeyPoints    []string       `json:"keyPoints"`
		Pitfalls     []string       `json:"pitfalls"`
		Usage        map[string]int `json:"usage"`
	}
	decodeJSON(t, w, &body)
	assert.Equal(t, []string{"R = ut"}, body.WorkingSteps)
	assert.Equal(t, []string{"Horizontal velocity is constant"}, body.KeyPoints)
	assert.NotNil(t, body.Pitfalls)
	assert.Contains(t, body.Usage, "totalTokens")
}

func TestExtractEndpoint(t *testing.T) {
	rec := &stubRecognizer{job: &recognition.Job{ResultText: "Q1 text", PageCount: 2, Cached: true}}
	s := newTestServer(rec)

	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))
	w := do(t, s, http.MethodPost, "/api/extract", `{"fileBase64":"data:application/pdf;base64,`+payload+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body extractResponse
	decodeJSON(t, w, &body)
	assert.Equal(t, extractResponse{Text: "Q1 text", Pages: 2, Cached: true}, body)
	assert.Equal(t, "application/pdf", rec.gotMime)
	assert.True(t, bytes.Equal([]byte("%PDF-1.7"), rec.gotBytes))
}

func TestExtractEndpoint_Errors(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))
	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"missing file", nil, `{"mimeType":"image/png"}`, http.StatusBadRequest},
		{"missing mime", nil, `{"fileBase64":"` + payload + `"}`, http.StatusBadRequest},
		{"upstream status", &recognition.ErrUpstream{Status: 401, Body: "bad key"}, `{"fileBase64":"` + payload + `","mimeType":"image/png"}`, http.StatusUnauthorized},
		{"protocol", &recognition.ErrProtocol{Reason: "no Operation-Location"}, `{"fileBase64":"` + payload + `","mimeType":"image/png"}`, http.StatusBadGateway},
		{"job failed", &recognition.ErrJobFailed{Detail: "{}"}, `{"fileBase64":"` + payload + `","mimeType":"image/png"}`, http.StatusBadGateway},
		{"timeout", &recognition.ErrTimeout{}, `{"fileBase64":"` + payload + `","mimeType":"image/png"}`, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubRecognizer{err: tt.err, job: &recognition.Job{}})
			w := do(t, s, http.MethodPost, "/api/extract", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var body errorBody
			decodeJSON(t, w, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	want := []byte("hello world")
	std := base64.StdEncoding.EncodeToString(want)

	tests := []struct {
		in   string
		mime string
	}{
		{std, ""},
		{"data:image/png;base64," + std, "image/png"},
		{strings.TrimRight(std, "="), ""},
		{std[:8] + "\n" + std[8:], ""},
	}
	for _, tt := range tests {
		got, mime, err := decodeBase64(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, want, got)
		assert.Equal(t, tt.mime, mime)
	}

	_, _, err := decodeBase64("data:image/png,notbase64")
	assert.Error(t, err)
	_, _, err = decodeBase64("%%%")
	assert.Error(t, err)
}
