package domain

import (
	"errors"
	"io"
)

// ErrImageRejected is wrapped by media relays when an upload fails their
// type checks. Callers surface it to the client as a request error.
var ErrImageRejected = errors.New("Only image files are allowed!")

// Upload is a single file received from a client, ready to be relayed to a
// storage backend.
type Upload struct {
	// Filename is the client-supplied name; only its extension is trusted.
	Filename string
	// ContentType is the declared MIME type of the part (may be empty).
	ContentType string
	// Size is the byte length reported by the transport.
	Size int64
	// Body streams the file contents. Relays read it at most once.
	Body io.Reader
}
