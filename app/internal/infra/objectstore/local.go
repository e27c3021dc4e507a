package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
)

var ErrInvalidPath = errors.New("invalid object path")

// Local keeps objects under BaseDir; the HTTP layer serves them at URLPrefix.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Upload(ctx context.Context, obj media.Object) (string, error) {
	ref, err := cleanRef(obj.Path)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(l.BaseDir, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, obj.Body); err != nil {
		return "", err
	}
	return ref, nil
}

func (l *Local) URL(ctx context.Context, ref string) (string, error) {
	ref, err := cleanRef(ref)
	if err != nil {
		return "", err
	}
	return l.URLPrefix + "/" + escapeRef(ref), nil
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	ref, err := cleanRef(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.BaseDir, filepath.FromSlash(ref))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return media.ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (l *Local) RefFromURL(u string) (string, bool) {
	return refUnder(l.URLPrefix, u)
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }

// cleanRef normalises p to a relative slash path. Any ".." segment is
// rejected, so a ref never leaves the storage root.
func cleanRef(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}

// escapeRef escapes every segment of ref for use in a URL path.
func escapeRef(ref string) string {
	segments := strings.Split(ref, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// refUnder is the inverse of base + "/" + escapeRef(ref).
func refUnder(base, u string) (string, bool) {
	rest, ok := strings.CutPrefix(u, base+"/")
	if !ok {
		return "", false
	}
	ref, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	if ref, err = cleanRef(ref); err != nil {
		return "", false
	}
	return ref, true
}
