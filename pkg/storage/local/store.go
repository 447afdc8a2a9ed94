package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnarg/webshop-backend/pkg/config"
	"github.com/arnarg/webshop-backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedType signals an upload whose sniffed content type is not an
// accepted image format.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge signals an upload exceeding the configured size limit.
var ErrTooLarge = errors.New("image exceeds size limit")

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store persists uploaded product images on the local filesystem and serves
// them under a public base URL.
type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewStore(cfg config.MediaConfig, logg *logger.Logger) (*Store, error) {
	if cfg.UploadDir == "" {
		return nil, errors.New("media upload dir is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("media public base url is required")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}

	if logg != nil {
		logg.Info(context.Background(), "local media store initialized")
	}

	return &Store{
		dir:      cfg.UploadDir,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Save sniffs the content type, rejects non-image payloads, and writes the
// file under a random name. It returns the public URL of the stored image.
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	if s == nil {
		return "", errors.New("store not initialized")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedTypes[mime.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image %q: %w", path, err)
	}

	return s.baseURL + "/" + name, nil
}

// Remove deletes a previously stored image by its public URL. Unknown URLs
// are ignored so callers can retry deletes safely.
func (s *Store) Remove(ctx context.Context, publicURL string) error {
	if s == nil || publicURL == "" {
		return nil
	}
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(publicURL, s.baseURL+"/"))
	if name == "" || name == "." || strings.Contains(name, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image %q: %w", name, err)
	}
	return nil
}

// Dir returns the directory files are written to, for serving via the router.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}
