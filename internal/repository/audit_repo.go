package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"empanelment/internal/domain"

	"gorm.io/gorm"
)

// AuditRepository is the append-only history of lifecycle events. Writes are
// best-effort: a failed insert is reported to the log and swallowed so that
// an audit-store outage never blocks the primary mutation.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

type auditModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ApplicationID string    `gorm:"column:application_id;index"`
	Action        string    `gorm:"column:action"`
	OldStatus     *string   `gorm:"column:old_status"`
	NewStatus     string    `gorm:"column:new_status"`
	Remarks       *string   `gorm:"column:remarks"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (auditModel) TableName() string { return "application_history" }

func toDomainAudit(m auditModel) domain.AuditEntry {
	return domain.AuditEntry{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		Action:        domain.AuditAction(m.Action),
		OldStatus:     m.OldStatus,
		NewStatus:     m.NewStatus,
		Remarks:       m.Remarks,
		CreatedAt:     m.CreatedAt,
	}
}

// Record appends one entry. It never reports failure to the caller.
func (r *AuditRepository) Record(ctx context.Context, applicationID string, action domain.AuditAction, oldStatus *string, newStatus string, remarks *string) {
	m := auditModel{
		ApplicationID: applicationID,
		Action:        string(action),
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Remarks:       remarks,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		log.Printf("audit: failed to record %s for %s: %v", action, applicationID, err)
	}
}

func (r *AuditRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.AuditEntry, error) {
	var rows []auditModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, toDomainAudit(m))
	}
	return entries, nil
}
