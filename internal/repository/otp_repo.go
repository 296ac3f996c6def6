package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OtpRepository interface {
	Create(code *model.OtpCode) error
	FindLatest(userID uuid.UUID, purpose model.OtpPurpose) (*model.OtpCode, error)
	MarkUsed(id uuid.UUID) error
	InvalidateAll(userID uuid.UUID, purpose model.OtpPurpose) error
}

type otpRepo struct {
	db *gorm.DB
}

func NewOtpRepo(db *gorm.DB) OtpRepository {
	return &otpRepo{db}
}

func (r *otpRepo) Create(code *model.OtpCode) error {
	return r.db.Create(code).Error
}

// FindLatest returns the most recent unused code for the user and purpose.
func (r *otpRepo) FindLatest(userID uuid.UUID, purpose model.OtpPurpose) (*model.OtpCode, error) {
	var code model.OtpCode
	err := r.db.Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *otpRepo) MarkUsed(id uuid.UUID) error {
	return r.db.Model(&model.OtpCode{}).Where("id = ?", id).Update("used", true).Error
}

// InvalidateAll burns outstanding codes before issuing a fresh one.
func (r *otpRepo) InvalidateAll(userID uuid.UUID, purpose model.OtpPurpose) error {
	return r.db.Model(&model.OtpCode{}).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Update("used", true).Error
}
