package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestTableName(t *testing.T) {
	if (School{}).TableName() != "schools" {
		t.Fatalf("School.TableName() = %q; want %q", (School{}).TableName(), "schools")
	}
}

func TestMigration_ColumnsAndIndex(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&School{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasTable(&School{}) {
		t.Fatalf("expected schools table")
	}
	for _, col := range []string{"id", "name", "address", "city", "state", "contact", "email_id", "image", "created_at"} {
		if !m.HasColumn(&School{}, col) {
			t.Fatalf("expected column %q on schools", col)
		}
	}
	if !m.HasIndex(&School{}, "idx_schools_created") {
		t.Fatalf("expected index idx_schools_created")
	}

	// IDs are assigned by the store and increase per insert.
	now := time.Now().UTC()
	a := NewSchool{Name: "A", Address: "Somewhere long", City: "X", State: "Y", Contact: "1234567890", EmailID: "a@b.co"}.Record(now)
	b := NewSchool{Name: "B", Address: "Somewhere long", City: "X", State: "Y", Contact: "1234567890", EmailID: "b@b.co"}.Record(now)
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("insert b: %v", err)
	}
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got a=%d b=%d", a.ID, b.ID)
	}
}

func TestNewSchool_Record_CopiesFields(t *testing.T) {
	img := "/schoolImages/x.png"
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := NewSchool{
		Name: "Delhi Public School", Address: "123 Long Enough Address Lane",
		City: "Mumbai", State: "Maharashtra", Contact: "9876543210",
		EmailID: "admin@school.edu.in", Image: &img,
	}
	r := n.Record(ts)
	if r.ID != 0 {
		t.Fatalf("Record must not assign ID, got %d", r.ID)
	}
	if r.Name != n.Name || r.Address != n.Address || r.City != n.City ||
		r.State != n.State || r.Contact != n.Contact || r.EmailID != n.EmailID {
		t.Fatalf("fields not copied: %+v", r)
	}
	if r.Image == nil || *r.Image != img || !r.CreatedAt.Equal(ts) {
		t.Fatalf("image/created_at mismatch: %+v", r)
	}
}

func TestSchool_JSON_ImageNullWhenAbsent(t *testing.T) {
	b, err := json.Marshal(School{ID: 7, Name: "n", EmailID: "e@x.io"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"id":7`, `"email_id":"e@x.io"`, `"image":null`, `"created_at":`} {
		if !strings.Contains(s, want) {
			t.Fatalf("json %s missing %s", s, want)
		}
	}
}
