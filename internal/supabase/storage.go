package supabase

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Upload stores body at bucket/objectPath (overwriting any existing object)
// and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, objectPath, contentType string, body io.Reader) (string, error) {
	hdr := http.Header{}
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	hdr.Set("x-upsert", "true")
	hdr.Set("Cache-Control", "max-age=3600")

	p := "/storage/v1/object/" + url.PathEscape(bucket) + "/" + escapePath(objectPath)
	if err := c.do(ctx, http.MethodPost, p, body, hdr, nil); err != nil {
		return "", err
	}
	return c.PublicURL(bucket, objectPath), nil
}

// PublicURL is the unauthenticated URL of an object in a public bucket.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return c.baseURL + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + escapePath(objectPath)
}

// escapePath escapes each segment of p, keeping the separators.
func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
