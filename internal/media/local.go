package media

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tbourn/go-school-directory/internal/domain"
)

var randN = func() int64 { return rand.Int64N(1_000_000_000) }

// Local writes images into a directory that the router serves statically.
type Local struct {
	Dir    string // filesystem directory, created on demand
	Prefix string // URL prefix Dir is served under, e.g. "/schoolImages"
}

// NewLocal returns a relay writing into dir and referencing files under prefix.
func NewLocal(dir, prefix string) *Local {
	return &Local{Dir: dir, Prefix: "/" + strings.Trim(prefix, "/")}
}

// Backend names the relay in metrics and logs.
func (l *Local) Backend() string { return "local" }

// Store writes up as school-<unix-ms>-<random>.<ext> and returns
// <Prefix>/<name>.
func (l *Local) Store(ctx context.Context, up domain.Upload) (string, error) {
	chk, err := inspect(up)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("school-%d-%d.%s", now().UnixMilli(), randN(), chk.ext)
	full := filepath.Join(l.Dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, chk.body); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path.Join(l.Prefix, name), nil
}
