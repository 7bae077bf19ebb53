package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidImage rejects uploads that are not png or jpeg files.
var ErrInvalidImage = errors.New("invalid image type")

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ImageStore writes listing photos to <Dir>/properties/<id>/<index>_<name>
// and serves them under URLPrefix.
type ImageStore struct {
	Dir       string
	URLPrefix string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{Dir: dir, URLPrefix: "/uploads"}
}

// CheckImages rejects the batch if any file has an unsupported extension.
func CheckImages(files []*multipart.FileHeader) error {
	for _, fh := range files {
		if !imageExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
			return fmt.Errorf("%w: %s", ErrInvalidImage, fh.Filename)
		}
	}
	return nil
}

// Save writes files for propertyID and returns their stored names.
func (s *ImageStore) Save(propertyID uint, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := CheckImages(files); err != nil {
		return nil, err
	}
	dir := s.dirFor(propertyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	names := make([]string, 0, len(files))
	for i, fh := range files {
		name := fmt.Sprintf("%d_%s", i, filepath.Base(fh.Filename))
		if err := writeUpload(fh, filepath.Join(dir, name)); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func writeUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return out.Close()
}

// URLs lists the public URLs of a property's photos in upload order. A
// missing directory yields none.
func (s *ImageStore) URLs(propertyID uint) []string {
	entries, err := os.ReadDir(s.dirFor(propertyID))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return uploadIndex(names[i]) < uploadIndex(names[j])
	})

	id := strconv.FormatUint(uint64(propertyID), 10)
	urls := make([]string, len(names))
	for i, n := range names {
		urls[i] = path.Join(s.URLPrefix, "properties", id, n)
	}
	return urls
}

// uploadIndex reads the position prefix of a stored "<index>_<name>" file.
// Names without one sort last.
func uploadIndex(name string) int {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return math.MaxInt
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return math.MaxInt
	}
	return n
}

func (s *ImageStore) dirFor(propertyID uint) string {
	return filepath.Join(s.Dir, "properties", strconv.FormatUint(uint64(propertyID), 10))
}
