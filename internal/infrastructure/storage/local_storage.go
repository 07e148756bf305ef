package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// ErrInvalidSignature is returned for tampered or expired local download links
var ErrInvalidSignature = shared.NewDomainError("INVALID_FILE_LINK", "Download link is invalid or has expired")

// LocalObjectStorage keeps objects under a directory and issues HMAC signed
// download links served by the files endpoint
type LocalObjectStorage struct {
	dir        string
	baseURL    string
	secret     []byte
	presignTTL time.Duration
	now        func() time.Time
}

// NewLocalObjectStorage creates the directory when needed. baseURL is the
// public prefix of the files endpoint, for example "/api/v1/files".
func NewLocalObjectStorage(dir, baseURL string, secret []byte, presignTTL time.Duration) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if presignTTL <= 0 {
		presignTTL = defaultPresignTTL
	}
	return &LocalObjectStorage{
		dir:        dir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     secret,
		presignTTL: presignTTL,
		now:        time.Now,
	}, nil
}

func (s *LocalObjectStorage) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Put implements common.ObjectStorage
func (s *LocalObjectStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o640); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Get implements common.ObjectStorage. The content type comes from the key extension.
func (s *LocalObjectStorage) Get(_ context.Context, key string) ([]byte, string, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrObjectNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// Delete implements common.ObjectStorage
func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Exists implements common.ObjectStorage
func (s *LocalObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// PresignGet implements common.ObjectStorage
func (s *LocalObjectStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if _, err := s.path(key); err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = s.presignTTL
	}
	expires := s.now().Add(ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expires.Unix(), 10)

	q := url.Values{}
	q.Set("expires", exp)
	q.Set("signature", s.sign(key, exp))
	return s.baseURL + "/" + key + "?" + q.Encode(), expires, nil
}

// Verify checks a link produced by PresignGet
func (s *LocalObjectStorage) Verify(key, expires, signature string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || s.now().Unix() > exp {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(s.sign(key, expires)), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (s *LocalObjectStorage) sign(key, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key + "|" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ common.ObjectStorage = (*LocalObjectStorage)(nil)
