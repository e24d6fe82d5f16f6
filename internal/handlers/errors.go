package handlers

import (
	"errors"
	"net/http"

	"insulin_drip/internal/service"
	"insulin_drip/internal/titration"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, titration.ErrMissingField),
		errors.Is(err, titration.ErrInvalidInput),
		errors.Is(err, service.ErrPatientIDRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPatientNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInfusionNotRunning),
		errors.Is(err, service.ErrInfusionRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Client errors echo the
// error text; server errors log it and return userMsg instead.
func (h *Handler) respondError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	code := statusFor(err)
	if code != http.StatusInternalServerError {
		h.log.Infow(logKey, append([]interface{}{"err", err, "status", code}, kv...)...)
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, code, userMsg, logKey, err, kv...)
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
