package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/hints"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/synthesis"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type imagePayload struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

type decodeRequest struct {
	Text     string         `json:"text"`
	Images   []imagePayload `json:"images"`
	Marks    int            `json:"marks"`
	Subject  string         `json:"subject"`
	Syllabus string         `json:"syllabus"`
	Level    string         `json:"level"`
}

func (s *Server) decode(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body", err)
		return
	}

	uploads := make([]decode.Upload, 0, len(req.Images))
	for i, img := range req.Images {
		data, mime, err := decodeBase64(img.Base64)
		if err != nil {
			badRequest(c, fmt.Sprintf("images[%d]: invalid base64", i), err)
			return
		}
		if img.MimeType != "" {
			mime = img.MimeType
		}
		uploads = append(uploads, decode.Upload{MimeType: mime, Data: data})
	}

	resp, err := s.svc.Decode(c.Request.Context(), decode.Request{
		Text:     req.Text,
		Images:   uploads,
		Marks:    req.Marks,
		Subject:  req.Subject,
		Syllabus: req.Syllabus,
		Level:    req.Level,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) hints(c *gin.Context) {
	var req hints.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body", err)
		return
	}
	if req.Items == nil {
		badRequest(c, "items is required", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hints": s.svc.RefineHints(c.Request.Context(), req)})
}

type refineRequest struct {
	Subject      string            `json:"subject"`
	Syllabus     string            `json:"syllabus"`
	Level        string            `json:"level"`
	OriginalText string            `json:"originalText"`
	MCQs         []stepgen.Step    `json:"mcqs"`
	Solution     *stepgen.Solution `json:"solution"`
}

func (s *Server) refine(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body", err)
		return
	}
	in := synthesis.Input{
		Subject:      req.Subject,
		Syllabus:     req.Syllabus,
		Level:        req.Level,
		OriginalText: req.OriginalText,
		Steps:        req.MCQs,
	}
	if req.Solution != nil {
		in.Baseline = *req.Solution
	}
	c.JSON(http.StatusOK, s.svc.Synthesize(c.Request.Context(), in))
}

type extractRequest struct {
	FileBase64 string `json:"fileBase64"`
	MimeType   string `json:"mimeType"`
}

type extractResponse struct {
	Text   string `json:"text"`
	Pages  int    `json:"pages,omitempty"`
	Cached bool   `json:"cached,omitempty"`
}

func (s *Server) extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body", err)
		return
	}
	if strings.TrimSpace(req.FileBase64) == "" {
		badRequest(c, "fileBase64 is required", nil)
		return
	}
	data, mime, err := decodeBase64(req.FileBase64)
	if err != nil {
		badRequest(c, "fileBase64: invalid base64", err)
		return
	}
	if req.MimeType != "" {
		mime = req.MimeType
	}
	if mime == "" {
		respondError(c, &decode.ErrInput{Field: "mimeType", Message: "mimeType is required"})
		return
	}

	job, err := s.svc.Extract(c.Request.Context(), mime, data)
	if err != nil {
		var inErr *decode.ErrInput
		if !errors.As(err, &inErr) {
			s.log.Warn("extract failed", "error", err, "mime_type", mime, "bytes", len(data))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, extractResponse{Text: job.ResultText, Pages: job.PageCount, Cached: job.Cached})
}
