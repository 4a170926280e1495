package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

func IsVerificationStatus(s string) bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// SellerVerification is the identity and payout data a user submits before
// selling. There is at most one per user; IDCard and Selfie are image URLs.
type SellerVerification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	FullName    string    `gorm:"size:100;not null" json:"full_name"`
	Email       string    `gorm:"size:100;not null" json:"email"`
	Country     string    `gorm:"size:100;not null" json:"country"`
	Phone       string    `gorm:"size:30;not null" json:"phone"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	BankName    string    `gorm:"size:100;not null" json:"bank_name"`
	BankAccount string    `gorm:"size:50;not null" json:"bank_account"`
	IDCard      string    `gorm:"type:text;not null" json:"id_card"`
	Selfie      string    `gorm:"type:text;not null" json:"selfie"`
	Status      string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *SellerVerification) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	if v.Status == "" {
		v.Status = VerificationPending
	}
	return
}

// EmailOTP holds the one pending email verification code per address.
type EmailOTP struct {
	Email     string    `gorm:"size:100;primaryKey" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (EmailOTP) TableName() string {
	return "email_otps"
}
