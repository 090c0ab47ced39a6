package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/locscore/internal/contract"
	"go.uber.org/zap"
)

var (
	errInvalidRequest = errors.New("invalid_request")
	errNotReady       = errors.New("dataset not loaded yet")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// invalidParam wraps a query parameter problem so it maps to 400.
func invalidParam(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", errInvalidRequest, name, err)
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}
	case errors.Is(err, contract.ErrUnknownMonth),
		errors.Is(err, contract.ErrUnknownLocation),
		errors.Is(err, contract.ErrNoData):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	case errors.Is(err, errNotReady):
		return http.StatusServiceUnavailable, errorPayload{Type: "service_unavailable", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

// ErrorHandlingMiddleware renders the last handler error as JSON.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if status == http.StatusInternalServerError {
			zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(lastErr.Err))
		}
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

// AbortWithError records err for ErrorHandlingMiddleware and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
