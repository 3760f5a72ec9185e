// Package media stores uploaded product images on disk.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"storefront/internal/validate"
)

var ErrInvalidImageType = errors.New("invalid image type")

// URLPath is where stored files are served from.
const URLPath = "/public/uploads/"

var reUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type Store struct {
	Dir string
	Now func() time.Time
}

func NewStore(dir string) *Store { return &Store{Dir: dir, Now: time.Now} }

// Check accepts a file only when both the declared Content-Type and the
// sniffed content are png or jpeg. It returns the stored extension.
func (s *Store) Check(fh *multipart.FileHeader) (string, error) {
	declared := fh.Header.Get("Content-Type")
	ext, ok := validate.ImageType(declared)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidImageType, declared)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if !m.Is("image/png") && !m.Is("image/jpeg") {
		return "", fmt.Errorf("%w: content is %s", ErrInvalidImageType, m.String())
	}
	return ext, nil
}

// Save validates fh and writes it under Dir, returning the stored file name.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext, err := s.Check(fh)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	base = strings.Trim(reUnsafe.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%d.%s", base, s.Now().UnixNano(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.Dir, name))
		return "", err
	}
	return name, nil
}

// Remove deletes stored files by name. Missing files are ignored.
func (s *Store) Remove(names ...string) error {
	var errs []error
	for _, name := range names {
		err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// URL builds the public address of a stored file.
func URL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + URLPath + name
}
