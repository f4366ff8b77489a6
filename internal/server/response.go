package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondError maps pipeline errors to status codes.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		inErr    *decode.ErrInput
		cfgErr   *llm.ErrConfiguration
		upErr    *recognition.ErrUpstream
		protoErr *recognition.ErrProtocol
		jobErr   *recognition.ErrJobFailed
		toErr    *recognition.ErrTimeout
	)
	switch {
	case errors.As(err, &inErr):
		c.JSON(http.StatusBadRequest, errorBody{Error: inErr.Error()})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusInternalServerError, errorBody{Error: "service is not configured", Details: cfgErr.Error()})
	case errors.As(err, &upErr):
		status := upErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, errorBody{Error: "recognition provider rejected the request", Details: upErr.Body})
	case errors.As(err, &protoErr):
		c.JSON(http.StatusBadGateway, errorBody{Error: "recognition provider protocol error", Details: protoErr.Reason})
	case errors.As(err, &jobErr):
		c.JSON(http.StatusBadGateway, errorBody{Error: "recognition job failed", Details: jobErr.Detail})
	case errors.As(err, &toErr):
		c.JSON(http.StatusGatewayTimeout, errorBody{Error: "recognition timed out", Details: toErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error", Details: err.Error()})
	}
}

func badRequest(c *gin.Context, msg string, err error) {
	body := errorBody{Error: msg}
	if err != nil {
		_ = c.Error(err)
		body.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
