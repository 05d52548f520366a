// Package services – SchoolService
//
// This file implements SchoolService, which owns the intake rules for new
// schools and coordinates the record store and the optional media relay.
// Input is trimmed and validated (fail fast, first violation wins) before any
// side effect happens. An uploaded image is relayed first, then the record is
// inserted with the relay's reference.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-school-directory/internal/config"
	"github.com/tbourn/go-school-directory/internal/domain"
)

const tracerName = "github.com/tbourn/go-school-directory/internal/services"

// RecordStore is the persistence contract for schools. The SQL store
// (repo.SchoolStore) and the hosted store (supabase.Store) implement it.
type RecordStore interface {
	// ListAll returns every school, newest first.
	ListAll(ctx context.Context) ([]domain.School, error)
	// InsertOne stores a validated school and returns it with ID and
	// CreatedAt assigned.
	InsertOne(ctx context.Context, in domain.NewSchool) (*domain.School, error)
}

// MediaRelay stores an uploaded image and returns its public reference.
// Rejected files are reported with an error wrapping domain.ErrImageRejected.
type MediaRelay interface {
	Store(ctx context.Context, up domain.Upload) (string, error)
}

// SchoolInput is the raw create request as received from the client.
type SchoolInput struct {
	Name    string
	Address string
	City    string
	State   string
	Contact string
	EmailID string
	// Image is nil when no (non-empty) file was submitted.
	Image *domain.Upload
}

// SchoolService provides listing and registration of schools.
type SchoolService struct {
	// Store persists school records.
	Store RecordStore
	// Relay stores uploaded images; nil disables image handling.
	Relay MediaRelay
	// FailurePolicy decides what a non-rejection relay failure does:
	// config.UploadContinue stores the record without an image,
	// config.UploadReject fails the request.
	FailurePolicy string
}

// NewSchoolService constructs a SchoolService. An empty policy defaults to
// config.UploadContinue.
func NewSchoolService(store RecordStore, relay MediaRelay, policy string) *SchoolService {
	if policy == "" {
		policy = config.UploadContinue
	}
	return &SchoolService{Store: store, Relay: relay, FailurePolicy: policy}
}

// List returns all schools, newest first. The result is never nil on success.
func (s *SchoolService) List(ctx context.Context) ([]domain.School, error) {
	out, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.School{}
	}
	return out, nil
}

// Create validates in, relays its image (if any), and inserts the record.
//
// Errors:
//   - *ValidationError for invalid fields or a rejected image file
//   - ErrImageUpload (wrapping the cause) when the relay fails under the
//     reject policy
//   - the store's error when the insert fails
func (s *SchoolService) Create(ctx context.Context, in SchoolInput) (*domain.School, error) {
	rec := domain.NewSchool{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Contact: strings.TrimSpace(in.Contact),
		EmailID: strings.TrimSpace(in.EmailID),
	}
	if err := validateSchool(rec); err != nil {
		return nil, err
	}

	lg := zerolog.Ctx(ctx)

	if in.Image != nil && s.Relay != nil {
		ref, err := s.relay(ctx, *in.Image)
		switch {
		case err == nil:
			rec.Image = &ref
		case errors.Is(err, domain.ErrImageRejected):
			return nil, ErrImageNotAllowed
		case s.FailurePolicy == config.UploadReject:
			return nil, fmt.Errorf("%w: %w", ErrImageUpload, err)
		default:
			lg.Warn().Err(err).Str("filename", in.Image.Filename).
				Msg("image upload failed; storing school without image")
		}
	}

	created, err := s.Store.InsertOne(ctx, rec)
	if err != nil {
		if rec.Image != nil {
			lg.Warn().Err(err).Str("image", *rec.Image).
				Msg("insert failed after image upload; image left orphaned")
		}
		return nil, err
	}
	schoolsCreated.Inc()
	return created, nil
}

// relay stores up inside a span and records the outcome.
func (s *SchoolService) relay(ctx context.Context, up domain.Upload) (string, error) {
	backend := "unknown"
	if b, ok := s.Relay.(interface{ Backend() string }); ok {
		backend = b.Backend()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "media.Store")
	defer span.End()
	span.SetAttributes(
		attribute.String("media.backend", backend),
		attribute.Int64("media.size", up.Size),
		attribute.String("media.content_type", up.ContentType),
	)

	ref, err := s.Relay.Store(ctx, up)
	outcome := "stored"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrImageRejected):
		outcome = "rejected"
	default:
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, "media upload failed")
	}
	span.SetAttributes(attribute.String("media.outcome", outcome))
	mediaUploads.WithLabelValues(backend, outcome).Inc()
	return ref, err
}
