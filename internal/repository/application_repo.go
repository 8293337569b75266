package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empanelment/internal/domain"
	"empanelment/internal/pkg/appid"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("application not found")
	ErrEmptyUpdate = errors.New("no fields to update")
)

// createAttempts bounds the retry loop for application_id collisions. The id
// suffix is derived from the millisecond clock, so a second attempt lands in a
// fresh window.
const createAttempts = 3

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

type applicationModel struct {
	ID                     int64      `gorm:"column:id;primaryKey"`
	ApplicationID          string     `gorm:"column:application_id;uniqueIndex"`
	Department             string     `gorm:"column:department;index"`
	ItemCategory           string     `gorm:"column:item_category"`
	ItemName               string     `gorm:"column:item_name"`
	ItemDescription        string     `gorm:"column:item_description;type:text"`
	TechnicalSpecs         string     `gorm:"column:technical_specs;type:text"`
	ComplianceRequirements string     `gorm:"column:compliance_requirements;type:text"`
	EstimatedValue         *string    `gorm:"column:estimated_value"`
	DeliveryTimeline       *string    `gorm:"column:delivery_timeline"`
	PreviousExperience     *string    `gorm:"column:previous_experience;type:text"`
	Certifications         *string    `gorm:"column:certifications;type:text"`
	Status                 string     `gorm:"column:status;index"`
	IsDraft                bool       `gorm:"column:is_draft"`
	CreatedAt              time.Time  `gorm:"column:created_at;index"`
	UpdatedAt              time.Time  `gorm:"column:updated_at"`
	SubmittedAt            *time.Time `gorm:"column:submitted_at"`
}

func (applicationModel) TableName() string { return "applications" }

func toDomainApplication(m applicationModel) *domain.Application {
	return &domain.Application{
		ID:                     m.ID,
		ApplicationID:          m.ApplicationID,
		Department:             m.Department,
		ItemCategory:           m.ItemCategory,
		ItemName:               m.ItemName,
		ItemDescription:        m.ItemDescription,
		TechnicalSpecs:         m.TechnicalSpecs,
		ComplianceRequirements: m.ComplianceRequirements,
		EstimatedValue:         deref(m.EstimatedValue),
		DeliveryTimeline:       deref(m.DeliveryTimeline),
		PreviousExperience:     deref(m.PreviousExperience),
		Certifications:         deref(m.Certifications),
		Status:                 domain.ApplicationStatus(m.Status),
		IsDraft:                m.IsDraft,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
		SubmittedAt:            m.SubmittedAt,
	}
}

func toApplicationModel(a *domain.Application) applicationModel {
	return applicationModel{
		ID:                     a.ID,
		ApplicationID:          a.ApplicationID,
		Department:             a.Department,
		ItemCategory:           a.ItemCategory,
		ItemName:               a.ItemName,
		ItemDescription:        a.ItemDescription,
		TechnicalSpecs:         a.TechnicalSpecs,
		ComplianceRequirements: a.ComplianceRequirements,
		EstimatedValue:         nilIfEmpty(a.EstimatedValue),
		DeliveryTimeline:       nilIfEmpty(a.DeliveryTimeline),
		PreviousExperience:     nilIfEmpty(a.PreviousExperience),
		Certifications:         nilIfEmpty(a.Certifications),
		Status:                 string(a.Status),
		IsDraft:                a.IsDraft,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
		SubmittedAt:            a.SubmittedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create assigns the application identifier, derives status and submitted_at
// from IsDraft, inserts the row and re-reads it so the caller sees
// store-assigned values. Collisions on application_id are retried with a
// freshly generated id.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	m := toApplicationModel(a)
	if a.IsDraft {
		m.Status = string(domain.StatusDraft)
		m.SubmittedAt = nil
	} else {
		m.Status = string(domain.StatusSubmitted)
		now := time.Now()
		m.SubmittedAt = &now
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		m.ID = 0
		m.ApplicationID = appid.New()
		err = r.db.WithContext(ctx).Create(&m).Error
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("create application: %w", err)
		}
	}
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	created, err := r.GetByID(ctx, m.ApplicationID)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	var m applicationModel
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return toDomainApplication(m), nil
}

// updatableColumns is the patch whitelist. id, application_id and the
// timestamps cannot be set through Update.
var updatableColumns = map[string]bool{
	"department":              true,
	"item_category":           true,
	"item_name":               true,
	"item_description":        true,
	"technical_specs":         true,
	"compliance_requirements": true,
	"estimated_value":         true,
	"delivery_timeline":       true,
	"previous_experience":     true,
	"certifications":          true,
	"status":                  true,
}

// Update applies a partial patch. Unknown and protected columns are dropped;
// an effectively empty patch is rejected. updated_at is stamped on every call.
func (r *ApplicationRepository) Update(ctx context.Context, applicationID string, patch map[string]any) (*domain.Application, error) {
	if _, err := r.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(patch))
	for column, value := range patch {
		if updatableColumns[column] {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	fields["updated_at"] = time.Now()

	err := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ?", applicationID).
		Updates(fields).Error
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	return r.GetByID(ctx, applicationID)
}

type ApplicationFilter struct {
	Department string
	Status     string
	Page       int
	Limit      int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// List returns one page ordered by creation time, newest first, plus the
// total matching count irrespective of pagination. Filters combine with AND.
func (r *ApplicationRepository) List(ctx context.Context, f ApplicationFilter) ([]domain.Application, int64, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	q := r.db.WithContext(ctx).Model(&applicationModel{})
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	var rows []applicationModel
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]domain.Application, 0, len(rows))
	for _, m := range rows {
		apps = append(apps, *toDomainApplication(m))
	}
	return apps, total, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, applicationID string) error {
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&applicationModel{}).Error
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
