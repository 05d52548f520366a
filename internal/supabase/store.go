package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tbourn/go-school-directory/internal/domain"
)

// Store is the hosted record store backed by a PostgREST table.
type Store struct {
	client *Client
	table  string
}

// NewStore returns a record store over table.
func NewStore(c *Client, table string) *Store {
	return &Store{client: c, table: table}
}

// ListAll returns every row, newest first.
func (s *Store) ListAll(ctx context.Context) ([]domain.School, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc,id.desc")

	var rows []schoolRow
	if err := s.client.do(ctx, http.MethodGet, s.path()+"?"+q.Encode(), nil, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.School, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.school())
	}
	return out, nil
}

// InsertOne inserts in and returns the stored row as PostgREST represents it.
func (s *Store) InsertOne(ctx context.Context, in domain.NewSchool) (*domain.School, error) {
	body, err := json.Marshal([]domain.NewSchool{in})
	if err != nil {
		return nil, err
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Prefer", "return=representation")

	var rows []schoolRow
	if err := s.client.do(ctx, http.MethodPost, s.path(), bytes.NewReader(body), hdr, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no rows")
	}
	out := rows[0].school()
	return &out, nil
}

func (s *Store) path() string {
	return "/rest/v1/" + url.PathEscape(s.table)
}

// schoolRow mirrors domain.School but tolerates timestamps without a zone
// offset, which PostgREST emits for "timestamp" (not timestamptz) columns.
type schoolRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Contact   string  `json:"contact"`
	EmailID   string  `json:"email_id"`
	Image     *string `json:"image"`
	CreatedAt pgTime  `json:"created_at"`
}

func (r schoolRow) school() domain.School {
	return domain.School{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		City:      r.City,
		State:     r.State,
		Contact:   r.Contact,
		EmailID:   r.EmailID,
		Image:     r.Image,
		CreatedAt: time.Time(r.CreatedAt),
	}
}

type pgTime time.Time

var pgLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

func (t *pgTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = pgTime{}
		return nil
	}
	var lastErr error
	for _, layout := range pgLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			*t = pgTime(ts.UTC())
			return nil
		}
		lastErr = err
	}
	return lastErr
}
