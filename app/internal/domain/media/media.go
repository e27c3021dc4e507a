package media

import (
	"context"
	"errors"
	"io"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrNotImage       = errors.New("file is not an image")
)

// Object is a blob to upload under Path.
type Object struct {
	Path        string
	Body        io.Reader
	Size        int64
	ContentType string
}

// Bucket is path-addressed blob storage.
type Bucket interface {
	Upload(ctx context.Context, obj Object) (ref string, err error)
	// URL resolves a durable download URL for ref.
	URL(ctx context.Context, ref string) (string, error)
	// Delete removes ref; it returns ErrObjectNotFound when nothing is stored there.
	Delete(ctx context.Context, ref string) error
	// RefFromURL maps a download URL issued by this bucket back to its ref.
	RefFromURL(url string) (string, bool)
}
