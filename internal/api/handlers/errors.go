package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// bindOptionalJSON decodes the body into dst; an empty body keeps dst as is.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "details": err.Error()})
}

// respondError maps engine failures to 422, deadlines to 504 and anything
// else to 500.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var engineErr *analytics.Error
	switch {
	case errors.As(err, &engineErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(engineErr.Kind), "details": engineErr.Message})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "TimeoutError", "details": "forecast did not finish in time"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Canceled", "details": "request was canceled"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "InternalError", "details": err.Error()})
	}
}
