package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// SubmitVerificationRequest is bound from the multipart form that also
// carries the id_card and selfie files.
type SubmitVerificationRequest struct {
	FullName    string `form:"full_name" binding:"required,max=100"`
	Email       string `form:"email" binding:"required,email,max=100"`
	Country     string `form:"country" binding:"required,max=100"`
	Phone       string `form:"phone" binding:"required,max=30"`
	Address     string `form:"address" binding:"required,max=500"`
	BankName    string `form:"bank_name" binding:"required,max=100"`
	BankAccount string `form:"bank_account" binding:"required,max=50"`
}

type DocumentUpload struct {
	Reader   io.Reader
	FileName string
}

type ListVerificationsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

type SetUserVerifiedRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

type VerificationResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	BankName    string    `json:"bank_name"`
	BankAccount string    `json:"bank_account"`
	IDCard      string    `json:"id_card"`
	Selfie      string    `json:"selfie"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StatusResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

type GenerateOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type CheckVerificationQuery struct {
	Email string `form:"email" binding:"required,email"`
}

type EmailVerificationResponse struct {
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}
