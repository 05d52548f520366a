package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/tbourn/go-school-directory/internal/domain"
)

// objectUploader is implemented by *supabase.Client.
type objectUploader interface {
	Upload(ctx context.Context, bucket, objectPath, contentType string, body io.Reader) (string, error)
}

// Supabase stores images in a Supabase Storage bucket.
type Supabase struct {
	client objectUploader
	bucket string
	folder string
}

// NewSupabase returns a relay writing to bucket under folder.
func NewSupabase(c objectUploader, bucket, folder string) *Supabase {
	return &Supabase{client: c, bucket: bucket, folder: folder}
}

// Backend names the relay in metrics and logs.
func (s *Supabase) Backend() string { return "supabase" }

// Store uploads up as <folder>/school-<unix-ms>-<uuid>.<ext> and returns the
// object's public URL.
func (s *Supabase) Store(ctx context.Context, up domain.Upload) (string, error) {
	chk, err := inspect(up)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("school-%d-%s.%s", now().UnixMilli(), uuid.NewString(), chk.ext)
	u, err := s.client.Upload(ctx, s.bucket, path.Join(s.folder, name), chk.contentType, chk.body)
	if err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}
	return u, nil
}
