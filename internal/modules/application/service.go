package application

import (
	"context"
	"errors"
	"mime/multipart"

	"empanelment/internal/domain"
	"empanelment/internal/pkg/validator"
	"empanelment/internal/repository"
)

const draftsPageLimit = 50

// Service orchestrates the application store, the file registry and the
// audit log. Every successful mutation makes exactly one audit attempt;
// audit failures never surface here.
type Service struct {
	apps        ApplicationRepository
	audit       AuditRecorder
	attachments Attachments
	transition  TransitionValidator
	events      EventPublisher
}

func NewService(
	apps ApplicationRepository,
	audit AuditRecorder,
	attachments Attachments,
	transition TransitionValidator,
	events EventPublisher,
) *Service {
	if transition == nil {
		transition = PermissiveTransitions
	}
	return &Service{
		apps:        apps,
		audit:       audit,
		attachments: attachments,
		transition:  transition,
		events:      events,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Application, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	app := &domain.Application{
		Department:             req.Department,
		ItemCategory:           req.ItemCategory,
		ItemName:               req.ItemName,
		ItemDescription:        req.ItemDescription,
		TechnicalSpecs:         req.TechnicalSpecs,
		ComplianceRequirements: req.ComplianceRequirements,
		EstimatedValue:         req.EstimatedValue,
		DeliveryTimeline:       req.DeliveryTimeline,
		PreviousExperience:     req.PreviousExperience,
		Certifications:         req.Certifications,
		IsDraft:                req.IsDraft,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, app.ApplicationID, domain.AuditCreated, nil, string(app.Status), nil)
	return app, nil
}

// CreateWithFiles creates the record and then attaches each file
// independently. A failing file is skipped; the operation succeeds with
// whatever subset was stored.
func (s *Service) CreateWithFiles(ctx context.Context, req CreateRequest, files []*multipart.FileHeader) (*domain.Application, []domain.ApplicationFile, error) {
	app, err := s.Create(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	var saved []domain.ApplicationFile
	if s.attachments != nil && len(files) > 0 {
		saved = s.attachments.SaveAll(ctx, app.ApplicationID, files)
	}
	return app, saved, nil
}

func (s *Service) Get(ctx context.Context, applicationID string) (*ApplicationWithFiles, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	files := []domain.ApplicationFile{}
	if s.attachments != nil {
		files, err = s.attachments.ListByApplication(ctx, applicationID)
		if err != nil {
			return nil, err
		}
	}
	return &ApplicationWithFiles{Application: *app, Files: files}, nil
}

func (s *Service) Update(ctx context.Context, applicationID string, req UpdateRequest) (*domain.Application, error) {
	// Read current state first: the audit entry needs the prior status.
	current, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.Status != nil {
		next := domain.ApplicationStatus(*req.Status)
		if err := s.transition(current.Status, next); err != nil {
			return nil, err
		}
	}

	updated, err := s.apps.Update(ctx, applicationID, req.patch())
	if err != nil {
		if errors.Is(err, repository.ErrEmptyUpdate) {
			return nil, ErrEmptyUpdate
		}
		return nil, mapNotFound(err)
	}

	oldStatus := string(current.Status)
	s.recordAudit(ctx, applicationID, domain.AuditUpdated, &oldStatus, string(updated.Status), req.Remarks)
	return updated, nil
}

// Delete removes the attachments, then the record, then logs. The audit
// entry carries the record's actual prior status.
func (s *Service) Delete(ctx context.Context, applicationID string) error {
	current, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return mapNotFound(err)
	}

	if s.attachments != nil {
		if err := s.attachments.RemoveForApplication(ctx, applicationID); err != nil {
			return err
		}
	}

	if err := s.apps.Delete(ctx, applicationID); err != nil {
		return err
	}

	oldStatus := string(current.Status)
	s.recordAudit(ctx, applicationID, domain.AuditDeleted, &oldStatus, "deleted", nil)
	return nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]domain.Application, int64, error) {
	return s.apps.List(ctx, repository.ApplicationFilter{
		Department: req.Department,
		Status:     req.Status,
		Page:       req.Page,
		Limit:      req.Limit,
	})
}

func (s *Service) ListDrafts(ctx context.Context) ([]domain.Application, int64, error) {
	return s.apps.List(ctx, repository.ApplicationFilter{
		Status: string(domain.StatusDraft),
		Page:   1,
		Limit:  draftsPageLimit,
	})
}

// History works for deleted applications too; audit rows outlive the record.
func (s *Service) History(ctx context.Context, applicationID string) ([]domain.AuditEntry, error) {
	return s.audit.ListByApplication(ctx, applicationID)
}

func (s *Service) recordAudit(ctx context.Context, applicationID string, action domain.AuditAction, oldStatus *string, newStatus string, remarks *string) {
	s.audit.Record(ctx, applicationID, action, oldStatus, newStatus, remarks)
	if s.events != nil {
		s.events.PublishAudit(domain.AuditEntry{
			ApplicationID: applicationID,
			Action:        action,
			OldStatus:     oldStatus,
			NewStatus:     newStatus,
			Remarks:       remarks,
		})
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
