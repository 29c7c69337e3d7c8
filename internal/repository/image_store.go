package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
)

// ErrImageNotFound is returned when a referenced image is no longer on disk
var ErrImageNotFound = errors.New("image not found")

// ImageStore keeps post images in a directory. Records refer to images by the
// returned path only; nothing checks that the file still exists later.
type ImageStore struct {
	dir string
}

// NewImageStore creates the image directory if needed
func NewImageStore(dir string) (*ImageStore, error) {
	if dir == "" {
		dir = "images"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the image directory
func (s *ImageStore) Dir() string {
	return s.dir
}

// ImageName derives the file name for an image posted by user at t
func ImageName(user string, t time.Time) string {
	if user == "" {
		user = "anonymous"
	}
	user = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(user)
	stamp := strings.NewReplacer(":", "", " ", "_").Replace(t.Format(entities.TimestampLayout))
	return fmt.Sprintf("%s_%s.png", user, stamp)
}

// Put writes the image under name and returns the path to record in the post
func (s *ImageStore) Put(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return path, nil
}

// Exists reports whether path points at an image that is still on disk
func (s *ImageStore) Exists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Resolve maps a bare file name to its path inside the store
func (s *ImageStore) Resolve(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Open returns the image at path, or ErrImageNotFound when it is gone
func (s *ImageStore) Open(path string) (io.ReadCloser, error) {
	if !s.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	return os.Open(path)
}
