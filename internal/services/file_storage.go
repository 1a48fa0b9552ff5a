package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrEmptyFile           = errors.New("File is empty")
	ErrFileTooLarge        = errors.New("File must be at most 5 MB")
	ErrUnsupportedFileType = errors.New("Only JPEG, PNG and WebP images are allowed")
)

// UploadURLPrefix is where stored files are served from.
const UploadURLPrefix = "/uploads"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// FileStorage stores uploaded files and returns their public URL.
type FileStorage interface {
	Store(ctx context.Context, subfolder string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicURL string) error
}

// LocalFileStorage writes uploads below a directory on disk.
type LocalFileStorage struct {
	root string
}

// NewLocalFileStorage creates a LocalFileStorage rooted at dir.
func NewLocalFileStorage(dir string) *LocalFileStorage {
	return &LocalFileStorage{root: dir}
}

// Store validates the image by its content and writes it under a random name.
func (s *LocalFileStorage) Store(ctx context.Context, subfolder string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > constants.MaxUploadSize {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", ErrUnsupportedFileType
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + mtype.Extension()
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return "", err
	}

	return path.Join(UploadURLPrefix, subfolder, name), nil
}

// Remove deletes a file previously returned by Store. Unknown URLs are ignored.
func (s *LocalFileStorage) Remove(ctx context.Context, publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, UploadURLPrefix+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func writeFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}
