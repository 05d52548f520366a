// Package repo implements the data persistence layer for schools, backed by
// GORM. This file provides repository functions for the School model and the
// SchoolStore adapter that satisfies services.RecordStore.
//
// All functions are context-aware and accept a *gorm.DB handle. They follow
// the "thin repository" approach: no validation and no business logic, only
// persistence and query composition. Database errors are propagated as-is.
//
// Functions:
//
//   - CreateSchool(ctx, db, in) -> *domain.School, error
//     Inserts one row stamped with a UTC creation time.
//
//   - ListSchools(ctx, db) -> []domain.School, error
//     Returns every school, newest first.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-school-directory/internal/domain"
)

// now is the clock used to stamp created_at. Tests may replace it.
var now = func() time.Time { return time.Now().UTC() }

// CreateSchool inserts a new School row built from in. The ID is assigned by
// the database (auto increment). On success, it returns the persisted row.
func CreateSchool(ctx context.Context, db *gorm.DB, in domain.NewSchool) (*domain.School, error) {
	s := in.Record(now())
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListSchools returns all schools ordered by creation time descending (most
// recent first); equal timestamps fall back to id descending so insertion
// order is preserved. It returns an empty, non-nil slice when there are none.
func ListSchools(ctx context.Context, db *gorm.DB) ([]domain.School, error) {
	out := []domain.School{}
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&out).Error
	return out, err
}

// SchoolStore is the SQL-backed record store.
type SchoolStore struct {
	DB *gorm.DB
}

// NewSchoolStore wraps db as a record store.
func NewSchoolStore(db *gorm.DB) *SchoolStore {
	return &SchoolStore{DB: db}
}

// ListAll proxies ListSchools.
func (s *SchoolStore) ListAll(ctx context.Context) ([]domain.School, error) {
	return ListSchools(ctx, s.DB)
}

// InsertOne proxies CreateSchool.
func (s *SchoolStore) InsertOne(ctx context.Context, in domain.NewSchool) (*domain.School, error) {
	return CreateSchool(ctx, s.DB, in)
}
