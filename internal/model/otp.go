package model

import (
	"time"

	"github.com/google/uuid"
)

type OtpPurpose string

const (
	OtpPurposeSignup OtpPurpose = "signup"
	OtpPurposeReset  OtpPurpose = "reset"
)

// OtpCode is a single-use verification code mailed to a user during signup or
// password reset. Codes expire and are invalidated once consumed.
type OtpCode struct {
	BaseModel
	Code      string     `gorm:"type:varchar(6);not null" json:"-"`
	Purpose   OtpPurpose `gorm:"type:varchar(20);not null;default:'reset'" json:"purpose"`
	Used      bool       `gorm:"default:false" json:"used"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Expired reports whether the code is past its validity window.
func (o *OtpCode) Expired() bool {
	return time.Now().After(o.ExpiresAt)
}
