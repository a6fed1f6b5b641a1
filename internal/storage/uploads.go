package storage

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrUnsupportedImageType = errors.New("unsupported image type")

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// DiskStore persists uploaded event images under a base directory with a
// collision-resistant generated filename. The event record stores only
// the returned relative path.
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{baseDir: baseDir}, nil
}

func (s *DiskStore) SaveEventImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))

	if _, ok := allowedImageExts[ext]; !ok {
		return "", ErrUnsupportedImageType
	}

	name := "event-" + uuid.NewString() + ext
	dst := filepath.Join(s.baseDir, name)

	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join("uploads", "events", name)), nil
}

func (s *DiskStore) Remove(path string) error {
	// path is the stored relative reference; only the filename matters here
	return os.Remove(filepath.Join(s.baseDir, filepath.Base(path)))
}

func (s *DiskStore) BaseDir() string {
	return s.baseDir
}
