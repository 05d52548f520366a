// School HTTP handlers.
//
// This file exposes the REST endpoints for the directory:
//   - GET  /schools   (list, newest first)
//   - POST /schools   (multipart create with optional image)
//
// Handlers are transport-thin: they read the form, enforce the per-file size
// ceiling, call SchoolService, and translate results into envelopes.
package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-school-directory/internal/domain"
	"github.com/tbourn/go-school-directory/internal/services"
)

// multipartMemory is how much of a multipart body is buffered in memory;
// larger file parts spill to temp files.
const multipartMemory = 8 << 20

// SchoolService defines the directory operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SchoolService interface {
	// List returns every school, newest first.
	List(ctx context.Context) ([]domain.School, error)
	// Create validates and stores a school, relaying its image if present.
	Create(ctx context.Context, in services.SchoolInput) (*domain.School, error)
}

// Handlers groups the HTTP endpoints for schools.
type Handlers struct {
	svc            SchoolService
	maxUploadBytes int64
}

// New constructs Handlers bound to svc. maxUploadBytes caps a single image
// part; values <= 0 disable the check.
func New(svc SchoolService, maxUploadBytes int64) *Handlers {
	return &Handlers{svc: svc, maxUploadBytes: maxUploadBytes}
}

// ListSchools godoc
// @ID          listSchools
// @Summary     List schools
// @Description Returns every registered school, newest first. An empty directory yields an empty array.
// @Tags        Schools
// @Produce     json
//
// @Success     200  {object} handlers.ListSchoolsResponse
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /schools [get]
func (h *Handlers) ListSchools(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, messageOr(err, "Failed to fetch schools"))
		return
	}
	if items == nil {
		items = []domain.School{}
	}
	ok(c, http.StatusOK, ListSchoolsResponse{Success: true, Data: items})
}

// CreateSchool godoc
// @ID          createSchool
// @Summary     Register a school
// @Description Validates the submitted fields, stores the optional image, and inserts the school.
// @Tags        Schools
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       name      formData  string  true   "School name (min 2 chars)"        example(Delhi Public School)
// @Param       address   formData  string  true   "Street address (min 10 chars)"
// @Param       city      formData  string  true   "City (min 2 chars)"
// @Param       state     formData  string  true   "State (min 2 chars)"
// @Param       contact   formData  string  true   "Ten-digit contact number"         example(9876543210)
// @Param       email_id  formData  string  true   "Contact email"                    example(info@dps.edu.in)
// @Param       image     formData  file    false  "School image (jpeg, jpg, png, gif; max 5 MiB)"
//
// @Success     201  {object} handlers.CreateSchoolResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failure, non-image file, or file too large"
// @Failure     500  {object} handlers.ErrorResponse "Store or upload failure"
// @Router      /schools [post]
func (h *Handlers) CreateSchool(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if isTooLarge(err) {
			fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "File too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid form body")
		return
	}

	in := services.SchoolInput{
		Name:    c.PostForm("name"),
		Address: c.PostForm("address"),
		City:    c.PostForm("city"),
		State:   c.PostForm("state"),
		Contact: c.PostForm("contact"),
		EmailID: c.PostForm("email_id"),
	}

	fh, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid image part")
		return
	}
	if fh != nil && fh.Size > 0 {
		if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
			fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "File too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid image part")
			return
		}
		defer f.Close()
		in.Image = upload(fh, f)
	}

	s, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Message)
		case errors.Is(err, services.ErrImageUpload):
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, services.ErrImageUpload.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, messageOr(err, "Failed to add school"))
		}
		return
	}

	ok(c, http.StatusCreated, CreateSchoolResponse{
		Success: true,
		Message: "School added successfully",
		ID:      s.ID,
		Data:    s,
	})
}

func upload(fh *multipart.FileHeader, f multipart.File) *domain.Upload {
	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}

// isTooLarge reports whether err came from the body size cap.
func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// messageOr returns err's message, or fallback when it is empty.
func messageOr(err error, fallback string) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
