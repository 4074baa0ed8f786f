package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/servmatch"
	"github.com/poiesic/servmatch/core"
)

// Envelope wraps every response body.
type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

func respondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// handleServiceError maps engine errors onto HTTP responses.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, servmatch.ErrProviderNotFound):
		respondError(c, http.StatusNotFound, "Provider not found")
	case errors.Is(err, core.ErrInvalidTopN):
		respondError(c, http.StatusBadRequest, "top_n must be a positive integer")
	case errors.Is(err, servmatch.ErrRecommendationFailed):
		logger.Error("recommendation failed", "trace_id", traceID(c), "err", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while generating recommendations")
	default:
		logger.Error("unexpected error", "trace_id", traceID(c), "err", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
