package application

import (
	"context"
	"mime/multipart"

	"empanelment/internal/domain"
	"empanelment/internal/repository"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByID(ctx context.Context, applicationID string) (*domain.Application, error)
	Update(ctx context.Context, applicationID string, patch map[string]any) (*domain.Application, error)
	List(ctx context.Context, f repository.ApplicationFilter) ([]domain.Application, int64, error)
	Delete(ctx context.Context, applicationID string) error
}

// AuditRecorder appends lifecycle events. Record is fire-and-forget: the
// implementation swallows its own failures.
type AuditRecorder interface {
	Record(ctx context.Context, applicationID string, action domain.AuditAction, oldStatus *string, newStatus string, remarks *string)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.AuditEntry, error)
}

// Attachments is the slice of the attachment service the lifecycle needs:
// best-effort multi-file save, listing, and cascade removal on delete.
type Attachments interface {
	SaveAll(ctx context.Context, applicationID string, files []*multipart.FileHeader) []domain.ApplicationFile
	ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationFile, error)
	RemoveForApplication(ctx context.Context, applicationID string) error
}

// EventPublisher pushes audit events to connected observers. Must never
// block the mutation path.
type EventPublisher interface {
	PublishAudit(entry domain.AuditEntry)
}
