package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/tbourn/go-school-directory/internal/config"
	"github.com/tbourn/go-school-directory/internal/domain"
)

// cloudUploader is the part of the Cloudinary upload API the relay calls.
// *uploader.API satisfies it.
type cloudUploader interface {
	Upload(ctx context.Context, file interface{}, p uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary uploads images to a Cloudinary folder and returns their
// secure URL.
type Cloudinary struct {
	up     cloudUploader
	folder string
}

// NewCloudinary builds a relay from either the CLOUDINARY_URL form or the
// individual credentials.
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{up: &cld.Upload, folder: cfg.Folder}, nil
}

// Backend names the relay in metrics and logs.
func (c *Cloudinary) Backend() string { return "cloudinary" }

// Store spools up to a temp file, uploads it as school-<unix-ms> and
// returns the secure URL. The temp file is removed on every path.
func (c *Cloudinary) Store(ctx context.Context, up domain.Upload) (string, error) {
	chk, err := inspect(up)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "school-upload-*."+chk.ext)
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, chk.body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("spool upload: %w", err)
	}

	res, err := c.up.Upload(ctx, tmp.Name(), uploader.UploadParams{
		Folder:    c.folder,
		PublicID:  fmt.Sprintf("school-%d", now().UnixMilli()),
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", errors.New("cloudinary upload: empty result")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: no secure_url in response")
	}
	return res.SecureURL, nil
}
