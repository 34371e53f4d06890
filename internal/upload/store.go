// Package upload stores multipart files under the public directory so the
// static file server can serve them back.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedType is returned when images-only mode is on and the
// sniffed content type is not an image.
var ErrUnsupportedType = errors.New("unsupported file type")

// DiskStore writes uploads to <root>/uploads/<original base name>.  A
// second upload with the same name replaces the first.
type DiskStore struct {
	root       string
	imagesOnly bool
}

func NewDiskStore(root string, imagesOnly bool) *DiskStore {
	return &DiskStore{root: root, imagesOnly: imagesOnly}
}

// Save copies fh to disk and returns its path relative to the working
// directory, slash separated (e.g. "public/uploads/a.jpg").
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + fh.Filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("upload: invalid file name %q", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open %s: %w", name, err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("upload: sniff %s: %w", name, err)
	}
	if s.imagesOnly && !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("upload: rewind %s: %w", name, err)
	}

	dir := filepath.Join(s.root, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: mkdir: %w", err)
	}
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("upload: create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("upload: write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("upload: close %s: %w", name, err)
	}
	return filepath.ToSlash(dstPath), nil
}

// Remove deletes a file previously returned by Save.  Paths outside
// <root>/uploads are refused and a missing file is not an error.
func (s *DiskStore) Remove(path string) error {
	p := filepath.Clean(filepath.FromSlash(path))
	if filepath.Dir(p) != filepath.Join(s.root, "uploads") {
		return fmt.Errorf("upload: %s is not an upload path", path)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: remove %s: %w", filepath.Base(p), err)
	}
	return nil
}
