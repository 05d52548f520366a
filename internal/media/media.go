// Package media relays uploaded school images to a storage backend and
// returns the reference (URL or public path) recorded with the school.
//
// Three relays are provided: Local (files under a public directory),
// Cloudinary (remote media host) and Supabase (hosted object bucket). All of
// them accept only jpeg, jpg, png and gif images; anything else is rejected
// with an error wrapping domain.ErrImageRejected.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tbourn/go-school-directory/internal/config"
	"github.com/tbourn/go-school-directory/internal/domain"
	"github.com/tbourn/go-school-directory/internal/supabase"
)

// Relay stores one upload and returns its public reference.
type Relay interface {
	Store(ctx context.Context, up domain.Upload) (string, error)
}

// imageTypes is matched against both the lowercased extension and the
// content type, so "image/jpeg" and ".JPG" both pass.
var imageTypes = regexp.MustCompile(`jpeg|jpg|png|gif`)

// sniffLen is how many leading bytes are inspected when the client did not
// declare a usable content type.
const sniffLen = 3072

var now = time.Now

// checked is an upload that passed the type checks.
type checked struct {
	ext         string // lowercased, without the dot
	contentType string
	body        io.Reader
}

// inspect applies the image allow-list to up. An empty or generic declared
// content type is replaced by one detected from the leading bytes, which are
// stitched back in front of the returned body.
func inspect(up domain.Upload) (checked, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(up.Filename), "."))
	if ext == "" || !imageTypes.MatchString(ext) {
		return checked{}, fmt.Errorf("extension %q: %w", ext, domain.ErrImageRejected)
	}
	if up.Body == nil {
		return checked{}, errors.New("upload has no body")
	}

	ct := strings.ToLower(strings.TrimSpace(up.ContentType))
	body := up.Body
	if ct == "" || ct == "application/octet-stream" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(body, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return checked{}, fmt.Errorf("read upload: %w", err)
		}
		head = head[:n]
		ct = mimetype.Detect(head).String()
		body = io.MultiReader(bytes.NewReader(head), body)
	}
	if !imageTypes.MatchString(ct) {
		return checked{}, fmt.Errorf("content type %q: %w", ct, domain.ErrImageRejected)
	}
	return checked{ext: ext, contentType: ct, body: body}, nil
}

// New builds the relay selected by cfg.Media.Backend. It returns a nil Relay
// for the "none" backend. sb is only used by the Supabase backend.
func New(cfg config.Config, sb *supabase.Client) (Relay, error) {
	switch cfg.Media.Backend {
	case config.MediaLocal:
		return NewLocal(cfg.Media.UploadDir, cfg.Media.PublicPrefix), nil
	case config.MediaCloudinary:
		return NewCloudinary(cfg.Media.Cloudinary)
	case config.MediaSupabase:
		if sb == nil {
			sb = supabase.NewClient(cfg.Supabase, nil)
		}
		return NewSupabase(sb, cfg.Supabase.Bucket, cfg.Supabase.Folder), nil
	case config.MediaNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}
