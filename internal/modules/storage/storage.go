// Package storage keeps contract QR code images in an object store keyed by
// {supplierId}/{contractId}/qr.{ext}.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxQRCodeSize is the largest accepted QR code image (2 MiB).
	MaxQRCodeSize = 2 * 1024 * 1024

	publicPrefix = "/storage/v1/object/public/"
	signPrefix   = "/storage/v1/object/sign/"
)

var (
	ErrInvalidType  = errors.New("Invalid file type. Only PNG, JPEG, and SVG images are allowed.")
	ErrTooLarge     = errors.New("File size must be less than 2MB")
	ErrInvalidPath  = errors.New("invalid object path")
	ErrNotFound     = errors.New("object not found")
	ErrBadSignature = errors.New("invalid or expired signature")
)

// allowedTypes maps each accepted content type to its object key extensions.
// The first one is used when the filename carries no matching extension.
var allowedTypes = map[string][]string{
	"image/png":     {"png"},
	"image/jpeg":    {"jpg", "jpeg"},
	"image/svg+xml": {"svg"},
}

// ObjectStore is the file side of the backing service.
type ObjectStore interface {
	Bucket() string
	// Upload writes the object, replacing any existing one at the same path.
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	Open(ctx context.Context, path string) (*Object, error)
	// Delete removes every listed path. Missing objects are not an error.
	Delete(ctx context.Context, paths ...string) error
	PublicURL(path string) string
	SignedURL(path string, ttl time.Duration) (string, error)
	Verify(path string, expires int64, signature string) bool
}

// Object is an opened stored file.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ValidateQRCode checks the declared type and size of an upload. The type is
// checked first.
func ValidateQRCode(contentType string, size int64) error {
	if _, ok := allowedTypes[normalizeType(contentType)]; !ok {
		return ErrInvalidType
	}
	if size > MaxQRCodeSize {
		return ErrTooLarge
	}
	return nil
}

// QRCodePath builds the object key for a contract's QR image. The extension
// follows contentType; filename only picks between jpg and jpeg.
func QRCodePath(supplierID, contractID uuid.UUID, filename, contentType string) string {
	ext := "png"
	if exts, ok := allowedTypes[normalizeType(contentType)]; ok {
		ext = exts[0]
		hint := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
		if slices.Contains(exts, hint) {
			ext = hint
		}
	}
	return supplierID.String() + "/" + contractID.String() + "/qr." + ext
}

// QRCodePaths lists every key a contract's QR image may have been stored under.
func QRCodePaths(supplierID, contractID uuid.UUID) []string {
	prefix := supplierID.String() + "/" + contractID.String() + "/qr."
	return []string{prefix + "png", prefix + "jpg", prefix + "jpeg", prefix + "svg"}
}

// ExtractPath recovers the object key from a public or signed URL.
func ExtractPath(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	rest := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		rest = u.Path
	}

	var tail string
	switch {
	case strings.Contains(rest, publicPrefix):
		tail = rest[strings.Index(rest, publicPrefix)+len(publicPrefix):]
	case strings.Contains(rest, signPrefix):
		tail = rest[strings.Index(rest, signPrefix)+len(signPrefix):]
	default:
		return "", false
	}

	// drop the bucket segment
	_, key, ok := strings.Cut(tail, "/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func normalizeType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned != p || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

func contentTypeFor(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
