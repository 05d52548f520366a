package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-school-directory/internal/domain"
)

func newSchoolRepoDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("school_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() { _ = Close(db) })

	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// withClock pins the created_at clock for the duration of the test.
func withClock(t *testing.T, times ...time.Time) {
	t.Helper()
	prev := now
	i := 0
	now = func() time.Time {
		ts := times[i%len(times)]
		i++
		return ts
	}
	t.Cleanup(func() { now = prev })
}

func sample(name string) domain.NewSchool {
	return domain.NewSchool{
		Name:    name,
		Address: "123 Long Enough Address Lane",
		City:    "Mumbai",
		State:   "Maharashtra",
		Contact: "9876543210",
		EmailID: "admin@school.edu.in",
	}
}

func TestCreateSchool_Error_NoTable(t *testing.T) {
	db := newSchoolRepoDB(t, false)
	s, err := CreateSchool(context.Background(), db, sample("A"))
	if err == nil || s != nil {
		t.Fatalf("expected error creating without table, got school=%v err=%v", s, err)
	}
}

func TestListSchools_Error_NoTable(t *testing.T) {
	db := newSchoolRepoDB(t, false)
	if _, err := ListSchools(context.Background(), db); err == nil {
		t.Fatalf("expected error listing without table")
	}
}

func TestCreateSchool_AssignsIDAndCreatedAt(t *testing.T) {
	db := newSchoolRepoDB(t, true)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	withClock(t, ts)

	img := "/schoolImages/school-1-2.png"
	in := sample("Delhi Public School")
	in.Image = &img

	s, err := CreateSchool(context.Background(), db, in)
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}
	if s.ID == 0 || !s.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected id/created_at: %+v", s)
	}

	var got domain.School
	if err := db.First(&got, s.ID).Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Name != in.Name || got.EmailID != in.EmailID || got.Image == nil || *got.Image != img {
		t.Fatalf("readback mismatch: %+v", got)
	}
}

func TestListSchools_EmptyIsNonNil(t *testing.T) {
	db := newSchoolRepoDB(t, true)
	out, err := ListSchools(context.Background(), db)
	if err != nil {
		t.Fatalf("ListSchools: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestListSchools_NewestFirst(t *testing.T) {
	db := newSchoolRepoDB(t, true)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	withClock(t, base, base.Add(time.Second), base.Add(2*time.Second))

	ctx := context.Background()
	for _, n := range []string{"A", "B", "C"} {
		if _, err := CreateSchool(ctx, db, sample(n)); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}

	out, err := ListSchools(ctx, db)
	if err != nil {
		t.Fatalf("ListSchools: %v", err)
	}
	if len(out) != 3 || out[0].Name != "C" || out[1].Name != "B" || out[2].Name != "A" {
		t.Fatalf("unexpected order: %+v", out)
	}
}

func TestListSchools_TiesBrokenByID(t *testing.T) {
	db := newSchoolRepoDB(t, true)
	withClock(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	ctx := context.Background()
	for _, n := range []string{"first", "second"} {
		if _, err := CreateSchool(ctx, db, sample(n)); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	out, err := ListSchools(ctx, db)
	if err != nil {
		t.Fatalf("ListSchools: %v", err)
	}
	if len(out) != 2 || out[0].Name != "second" {
		t.Fatalf("expected later insert first on tie, got %+v", out)
	}
}

func TestSchoolStore_ProxiesRepo(t *testing.T) {
	db := newSchoolRepoDB(t, true)
	st := NewSchoolStore(db)
	ctx := context.Background()

	created, err := st.InsertOne(ctx, sample("Proxy"))
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	all, err := st.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != created.ID || all[0].Image != nil {
		t.Fatalf("unexpected list: %+v", all)
	}
}
