package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empanelment/internal/domain"

	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

type fileModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ApplicationID string    `gorm:"column:application_id;index"`
	FileName      string    `gorm:"column:file_name"`
	OriginalName  string    `gorm:"column:original_name"`
	FilePath      string    `gorm:"column:file_path"`
	FileSize      int64     `gorm:"column:file_size"`
	FileType      string    `gorm:"column:file_type"`
	UploadDate    time.Time `gorm:"column:upload_date;autoCreateTime"`
}

func (fileModel) TableName() string { return "application_files" }

func toDomainFile(m fileModel) *domain.ApplicationFile {
	return &domain.ApplicationFile{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		FileName:      m.FileName,
		OriginalName:  m.OriginalName,
		FilePath:      m.FilePath,
		FileSize:      m.FileSize,
		FileType:      m.FileType,
		UploadDate:    m.UploadDate,
	}
}

// Save inserts the descriptor and re-reads it by surrogate key so the caller
// gets the store-assigned id and upload_date. The referenced application is
// not checked here; that is the lifecycle service's responsibility.
func (r *FileRepository) Save(ctx context.Context, f *domain.ApplicationFile) error {
	m := fileModel{
		ApplicationID: f.ApplicationID,
		FileName:      f.FileName,
		OriginalName:  f.OriginalName,
		FilePath:      f.FilePath,
		FileSize:      f.FileSize,
		FileType:      f.FileType,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	saved, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*f = *saved
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domain.ApplicationFile, error) {
	var m fileModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return toDomainFile(m), nil
}

func (r *FileRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationFile, error) {
	var rows []fileModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("upload_date DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files := make([]domain.ApplicationFile, 0, len(rows))
	for _, m := range rows {
		files = append(files, *toDomainFile(m))
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&fileModel{}, id).Error; err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// DeleteByApplication removes every descriptor for an application. Used by
// the lifecycle service as an explicit cascade step before the application
// row itself is deleted.
func (r *FileRepository) DeleteByApplication(ctx context.Context, applicationID string) error {
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&fileModel{}).Error
	if err != nil {
		return fmt.Errorf("delete files for application: %w", err)
	}
	return nil
}
