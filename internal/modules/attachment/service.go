package attachment

import (
	"context"
	"errors"
	"log"
	"mime/multipart"

	"empanelment/internal/domain"
	"empanelment/internal/repository"
)

var ErrApplicationNotFound = errors.New("application not found")

// FileStore is the adapter that persists raw bytes and returns the
// descriptor shape the registry stores.
type FileStore interface {
	Save(fileHeader *multipart.FileHeader, applicationID string) (*domain.ApplicationFile, error)
	Delete(publicPath string) error
}

type FileRepository interface {
	Save(ctx context.Context, f *domain.ApplicationFile) error
	GetByID(ctx context.Context, id int64) (*domain.ApplicationFile, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationFile, error)
	Delete(ctx context.Context, id int64) error
	DeleteByApplication(ctx context.Context, applicationID string) error
}

type ApplicationGetter interface {
	GetByID(ctx context.Context, applicationID string) (*domain.Application, error)
}

type Service struct {
	files FileRepository
	apps  ApplicationGetter
	store FileStore
}

func NewService(files FileRepository, apps ApplicationGetter, store FileStore) *Service {
	return &Service{files: files, apps: apps, store: store}
}

// SaveAll stores each file independently: a failure is logged and skipped,
// and the saved subset is returned. Callers decide whether an empty result
// is acceptable.
func (s *Service) SaveAll(ctx context.Context, applicationID string, files []*multipart.FileHeader) []domain.ApplicationFile {
	saved := make([]domain.ApplicationFile, 0, len(files))
	for _, fh := range files {
		descriptor, err := s.store.Save(fh, applicationID)
		if err != nil {
			log.Printf("attachment: skipping %q for %s: %v", fh.Filename, applicationID, err)
			continue
		}
		if err := s.files.Save(ctx, descriptor); err != nil {
			log.Printf("attachment: failed to register %q for %s: %v", fh.Filename, applicationID, err)
			_ = s.store.Delete(descriptor.FilePath)
			continue
		}
		saved = append(saved, *descriptor)
	}
	return saved
}

// Attach verifies the application exists before saving; used by the upload
// endpoint where the id comes from the client.
func (s *Service) Attach(ctx context.Context, applicationID string, files []*multipart.FileHeader) ([]domain.ApplicationFile, error) {
	if _, err := s.apps.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return s.SaveAll(ctx, applicationID, files), nil
}

func (s *Service) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationFile, error) {
	return s.files.ListByApplication(ctx, applicationID)
}

// Delete removes the stored bytes, then the registry row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(f.FilePath); err != nil {
		log.Printf("attachment: could not remove bytes for file %d: %v", id, err)
	}
	return s.files.Delete(ctx, id)
}

// RemoveForApplication is the cascade step run before an application is
// deleted: bytes first, then all registry rows.
func (s *Service) RemoveForApplication(ctx context.Context, applicationID string) error {
	files, err := s.files.ListByApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.store.Delete(f.FilePath); err != nil {
			log.Printf("attachment: could not remove bytes for %s: %v", f.FileName, err)
		}
	}
	return s.files.DeleteByApplication(ctx, applicationID)
}
