package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrCodeNotFound = errors.New("verification code not found")

// VerificationCode is one login OTP challenge. Codes live in the database
// with an explicit expiry and are invalidated on first successful use, so no
// OTP state is held in process memory.
type VerificationCode struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	UserID     int64      `gorm:"column:user_id;index"`
	CodeHash   string     `gorm:"column:code_hash"`
	Attempts   int        `gorm:"column:attempts"`
	LastSentAt time.Time  `gorm:"column:last_sent_at"`
	ExpiresAt  time.Time  `gorm:"column:expires_at"`
	UsedAt     *time.Time `gorm:"column:used_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (VerificationCode) TableName() string { return "verification_codes" }

type VerificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Replace drops any outstanding challenge for the user and stores a new one.
func (r *VerificationCodeRepository) Replace(ctx context.Context, code *VerificationCode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", code.UserID).Delete(&VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
	if err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// GetActive returns the unused, unexpired challenge for the user.
func (r *VerificationCodeRepository) GetActive(ctx context.Context, userID int64) (*VerificationCode, error) {
	var code VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, time.Now()).
		First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get verification code: %w", err)
	}
	return &code, nil
}

func (r *VerificationCodeRepository) IncrementAttempts(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&VerificationCode{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&VerificationCode{}).
		Where("id = ?", id).
		Update("used_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}
	return nil
}

// PurgeExpired removes stale challenges; wired to the cleanup command.
func (r *VerificationCodeRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ? OR used_at IS NOT NULL", time.Now()).
		Delete(&VerificationCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge verification codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
