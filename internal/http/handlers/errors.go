// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These codes accompany the human-readable `error` message in every failure
// envelope and give clients a stable value to branch on.
//
// Example response:
//
//	{
//	  "success": false,
//	  "error": "Invalid email format",
//	  "code": "validation_failed",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeValidation   = "validation_failed"
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeUploadFailed = "upload_failed"
	ErrCodeCreateFailed = "create_failed"
	ErrCodeListFailed   = "list_failed"
)
