package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"empanelment/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSizeExceeded   = errors.New("file exceeds maximum allowed size")
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrEmptyFile      = errors.New("file is empty")
)

const DefaultMaxFileSize = 100 << 20 // 100 MB

// allowedTypes is the supporting-document allow-list.
var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// LocalStore writes uploaded files to a directory on local disk and hands
// back the descriptor the file registry persists. It knows nothing about the
// database.
type LocalStore struct {
	baseDir string
	maxSize int64
}

func NewLocalStore(baseDir string, maxSize int64) *LocalStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &LocalStore{baseDir: baseDir, maxSize: maxSize}
}

// Save validates size and type, writes the bytes under
// <applicationID>_<uuid><ext> and returns the descriptor. The public path is
// relative to the upload dir so it can be served statically.
func (s *LocalStore) Save(fileHeader *multipart.FileHeader, applicationID string) (*domain.ApplicationFile, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return nil, fmt.Errorf("%w (%d bytes, limit %d)", ErrSizeExceeded, fileHeader.Size, s.maxSize)
	}

	contentType := strings.Split(fileHeader.Header.Get("Content-Type"), ";")[0]
	contentType = strings.TrimSpace(contentType)
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotAllowed, contentType)
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	storedName := fmt.Sprintf("%s_%s%s", applicationID, uuid.New().String(), ext)
	absPath := filepath.Join(s.baseDir, storedName)

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &domain.ApplicationFile{
		ApplicationID: applicationID,
		FileName:      storedName,
		OriginalName:  fileHeader.Filename,
		FilePath:      "/uploads/" + storedName,
		FileSize:      fileHeader.Size,
		FileType:      contentType,
	}, nil
}

// Delete removes the stored bytes. A missing file is not an error; the row
// may outlive the bytes after a partial cleanup.
func (s *LocalStore) Delete(publicPath string) error {
	name := filepath.Base(publicPath)
	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
