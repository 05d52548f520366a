// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelopes shared by all endpoints. Every
// body carries a boolean `success`; failures add a human-readable `error`
// plus a stable machine-readable `code` and the correlation id.
//
// Conventions:
//   - All error responses go through `fail()`, which logs 5xx responses with
//     the request-scoped logger before writing the envelope.
//   - `ok()` writes success bodies in the shapes documented below.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "success": false,
//	  "error": "Contact number must be 10 digits",
//	  "code": "validation_failed",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{ "success": true, "message": "School added successfully", "id": 7, "data": {...} }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-school-directory/internal/domain"
	"github.com/tbourn/go-school-directory/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Always false
	Success bool `json:"success" example:"false"`
	// Human-readable message (safe to show to users)
	Error string `json:"error" example:"All fields are required"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code,omitempty" example:"validation_failed"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ListSchoolsResponse is the body of GET /schools.
type ListSchoolsResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    []domain.School `json:"data"`
}

// CreateSchoolResponse is the body of a successful POST /schools.
type CreateSchoolResponse struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"School added successfully"`
	ID      int64          `json:"id" example:"7"`
	Data    *domain.School `json:"data"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		Success:   false,
		Error:     msg,
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
