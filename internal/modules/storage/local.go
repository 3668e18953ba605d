package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/config"
)

// LocalStore keeps objects on disk under BaseDir/Bucket.
type LocalStore struct {
	root    string
	bucket  string
	baseURL string
	key     []byte
	now     func() time.Time
}

// NewLocalStore creates the bucket directory if needed.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	root := filepath.Join(cfg.BaseDir, cfg.Bucket)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return &LocalStore{
		root:    root,
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
		key:     []byte(cfg.SigningKey),
		now:     time.Now,
	}, nil
}

func (s *LocalStore) Bucket() string { return s.bucket }

func (s *LocalStore) Upload(ctx context.Context, p, contentType string, body io.Reader) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("store object: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, p string) (*Object, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Object{Body: f, ContentType: contentTypeFor(p), Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (s *LocalStore) Delete(ctx context.Context, paths ...string) error {
	var errs []error
	for _, p := range paths {
		full, err := s.resolve(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *LocalStore) PublicURL(p string) string {
	return s.baseURL + publicPrefix + s.bucket + "/" + p
}

func (s *LocalStore) SignedURL(p string, ttl time.Duration) (string, error) {
	if _, err := cleanPath(p); err != nil {
		return "", err
	}
	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.sign(p, expires))
	return s.baseURL + signPrefix + s.bucket + "/" + p + "?" + q.Encode(), nil
}

func (s *LocalStore) Verify(p string, expires int64, signature string) bool {
	if s.now().Unix() > expires {
		return false
	}
	want := s.sign(p, expires)
	return hmac.Equal([]byte(want), []byte(signature))
}

func (s *LocalStore) sign(p string, expires int64) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(s.bucket + "/" + p + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStore) resolve(p string) (string, error) {
	cleaned, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
