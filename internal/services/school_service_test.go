package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-school-directory/internal/config"
	"github.com/tbourn/go-school-directory/internal/domain"
)

// ----- Fakes -----

type fakeStore struct {
	rows      []domain.School
	listErr   error
	insertErr error
	inserted  []domain.NewSchool
}

func (f *fakeStore) ListAll(ctx context.Context) ([]domain.School, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.School, 0, len(f.rows))
	for i := len(f.rows) - 1; i >= 0; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeStore) InsertOne(ctx context.Context, in domain.NewSchool) (*domain.School, error) {
	f.inserted = append(f.inserted, in)
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	s := in.Record(time.Now().UTC())
	s.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *s)
	return s, nil
}

type fakeRelay struct {
	ref   string
	err   error
	calls int
}

func (f *fakeRelay) Store(ctx context.Context, up domain.Upload) (string, error) {
	f.calls++
	return f.ref, f.err
}

func (f *fakeRelay) Backend() string { return "fake" }

func validInput() SchoolInput {
	return SchoolInput{
		Name:    "Delhi Public School",
		Address: "Mathura Road, New Delhi",
		City:    "New Delhi",
		State:   "Delhi",
		Contact: "9876543210",
		EmailID: "info@dps.edu.in",
	}
}

func image() *domain.Upload {
	return &domain.Upload{Filename: "gate.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("data")}
}

func capturingCtx(buf *bytes.Buffer) context.Context {
	lg := zerolog.New(buf)
	return lg.WithContext(context.Background())
}

// ----- Tests -----

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SchoolInput)
		want   *ValidationError
	}{
		{"missing name", func(in *SchoolInput) { in.Name = "" }, ErrFieldsRequired},
		{"blank address", func(in *SchoolInput) { in.Address = "   " }, ErrFieldsRequired},
		{"missing city", func(in *SchoolInput) { in.City = "" }, ErrFieldsRequired},
		{"missing state", func(in *SchoolInput) { in.State = "" }, ErrFieldsRequired},
		{"missing contact", func(in *SchoolInput) { in.Contact = "" }, ErrFieldsRequired},
		{"missing email", func(in *SchoolInput) { in.EmailID = "" }, ErrFieldsRequired},
		{"required beats email", func(in *SchoolInput) { in.Name = ""; in.EmailID = "bad" }, ErrFieldsRequired},
		{"bad email", func(in *SchoolInput) { in.EmailID = "not-an-email" }, ErrInvalidEmail},
		{"email with space", func(in *SchoolInput) { in.EmailID = "a b@c.de" }, ErrInvalidEmail},
		{"email with no-break space", func(in *SchoolInput) { in.EmailID = "a\u00a0b@c.de" }, ErrInvalidEmail},
		{"email with ideographic space", func(in *SchoolInput) { in.EmailID = "ab@c\u3000d.de" }, ErrInvalidEmail},
		{"email with vertical tab", func(in *SchoolInput) { in.EmailID = "a\vb@c.de" }, ErrInvalidEmail},
		{"email with BOM", func(in *SchoolInput) { in.EmailID = "ab@c.d\ufeffe" }, ErrInvalidEmail},
		{"email beats contact", func(in *SchoolInput) { in.EmailID = "x"; in.Contact = "1" }, ErrInvalidEmail},
		{"short contact", func(in *SchoolInput) { in.Contact = "12345" }, ErrInvalidContact},
		{"long contact", func(in *SchoolInput) { in.Contact = "12345678901" }, ErrInvalidContact},
		{"letters contact", func(in *SchoolInput) { in.Contact = "abcdefghij" }, ErrInvalidContact},
		{"non-ascii digits", func(in *SchoolInput) { in.Contact = "९८७६५४३२१०" }, ErrInvalidContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			relay := &fakeRelay{ref: "/schoolImages/x.png"}
			svc := NewSchoolService(st, relay, "")
			in := validInput()
			in.Image = image()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Message != tt.want.Message {
				t.Fatalf("want %q, got %v", tt.want.Message, err)
			}
			if len(st.inserted) != 0 || relay.calls != 0 {
				t.Fatalf("no side effects expected on validation failure")
			}
		})
	}
}

func TestCreate_MinLengths(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SchoolInput)
		want   string
	}{
		{"name", func(in *SchoolInput) { in.Name = "A" }, "Name must be at least 2 characters"},
		{"address", func(in *SchoolInput) { in.Address = "Main Rd" }, "Address must be at least 10 characters"},
		{"city", func(in *SchoolInput) { in.City = "X" }, "City must be at least 2 characters"},
		{"state", func(in *SchoolInput) { in.State = "D" }, "State must be at least 2 characters"},
		{"first in field order", func(in *SchoolInput) { in.State = "D"; in.Name = "A" }, "Name must be at least 2 characters"},
		{"after contact", func(in *SchoolInput) { in.Name = "A"; in.Contact = "1" }, ErrInvalidContact.Message},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSchoolService(&fakeStore{}, nil, "")
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			if err == nil || err.Error() != tt.want {
				t.Fatalf("want %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreate_TrimsAndStores(t *testing.T) {
	st := &fakeStore{}
	svc := NewSchoolService(st, nil, "")
	in := validInput()
	in.Name = "  Delhi Public School  "
	in.Contact = " 9876543210\n"

	before := testutil.ToFloat64(schoolsCreated)
	s, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Name != "Delhi Public School" || s.Contact != "9876543210" || s.Image != nil {
		t.Fatalf("unexpected record: %+v", s)
	}
	if got := testutil.ToFloat64(schoolsCreated) - before; got != 1 {
		t.Fatalf("schools_created_total delta = %v", got)
	}
}

func TestCreate_WithImage(t *testing.T) {
	st := &fakeStore{}
	relay := &fakeRelay{ref: "/schoolImages/school-1-2.png"}
	svc := NewSchoolService(st, relay, config.UploadContinue)
	in := validInput()
	in.Image = image()

	before := testutil.ToFloat64(mediaUploads.WithLabelValues("fake", "stored"))
	s, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Image == nil || *s.Image != relay.ref {
		t.Fatalf("image not recorded: %+v", s)
	}
	if got := testutil.ToFloat64(mediaUploads.WithLabelValues("fake", "stored")) - before; got != 1 {
		t.Fatalf("stored uploads delta = %v", got)
	}
}

func TestCreate_NoRelayIgnoresImage(t *testing.T) {
	st := &fakeStore{}
	svc := NewSchoolService(st, nil, "")
	in := validInput()
	in.Image = image()
	s, err := svc.Create(context.Background(), in)
	if err != nil || s.Image != nil {
		t.Fatalf("expected record without image, got %+v err=%v", s, err)
	}
}

func TestCreate_ImageRejected_AnyPolicy(t *testing.T) {
	for _, policy := range []string{config.UploadContinue, config.UploadReject} {
		st := &fakeStore{}
		relay := &fakeRelay{err: fmt.Errorf("extension %q: %w", "pdf", domain.ErrImageRejected)}
		svc := NewSchoolService(st, relay, policy)
		in := validInput()
		in.Image = image()

		_, err := svc.Create(context.Background(), in)
		if !errors.Is(err, ErrImageNotAllowed) {
			t.Fatalf("policy %s: want ErrImageNotAllowed, got %v", policy, err)
		}
		if len(st.inserted) != 0 {
			t.Fatalf("policy %s: record must not be stored", policy)
		}
	}
}

func TestCreate_UploadFailure_ContinuePolicy(t *testing.T) {
	var buf bytes.Buffer
	st := &fakeStore{}
	relay := &fakeRelay{err: errors.New("connection reset")}
	svc := NewSchoolService(st, relay, config.UploadContinue)
	in := validInput()
	in.Image = image()

	s, err := svc.Create(capturingCtx(&buf), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Image != nil {
		t.Fatalf("expected image=nil under continue policy, got %v", *s.Image)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("expected warn log, got %q", buf.String())
	}
}

func TestCreate_UploadFailure_RejectPolicy(t *testing.T) {
	st := &fakeStore{}
	relay := &fakeRelay{err: errors.New("connection reset")}
	svc := NewSchoolService(st, relay, config.UploadReject)
	in := validInput()
	in.Image = image()

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrImageUpload) {
		t.Fatalf("want ErrImageUpload, got %v", err)
	}
	if len(st.inserted) != 0 {
		t.Fatalf("record must not be stored under reject policy")
	}
}

func TestCreate_InsertFailure_LogsOrphan(t *testing.T) {
	var buf bytes.Buffer
	st := &fakeStore{insertErr: errors.New("Duplicate entry")}
	relay := &fakeRelay{ref: "https://res.cloudinary.com/demo/school-1.png"}
	svc := NewSchoolService(st, relay, "")
	in := validInput()
	in.Image = image()

	_, err := svc.Create(capturingCtx(&buf), in)
	if err == nil || err.Error() != "Duplicate entry" {
		t.Fatalf("expected store error, got %v", err)
	}
	if !strings.Contains(buf.String(), "orphaned") || !strings.Contains(buf.String(), relay.ref) {
		t.Fatalf("expected orphan warning, got %q", buf.String())
	}
}

func TestList(t *testing.T) {
	st := &fakeStore{}
	svc := NewSchoolService(st, nil, "")
	ctx := context.Background()

	out, err := svc.List(ctx)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("empty list: out=%#v err=%v", out, err)
	}

	for _, n := range []string{"Alpha School", "Bravo School", "Charlie School"} {
		in := validInput()
		in.Name = n
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create(%s): %v", n, err)
		}
	}
	out, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 3 || out[0].Name != "Charlie School" || out[2].Name != "Alpha School" {
		t.Fatalf("unexpected order: %+v", out)
	}

	st.listErr = errors.New("db down")
	if _, err := svc.List(ctx); err == nil {
		t.Fatalf("expected store error")
	}
}
