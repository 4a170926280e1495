package repository

import (
	"context"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationRepository interface {
	Create(ctx context.Context, v *entity.SellerVerification) error
	// Resubmit overwrites a record with new documents and resets its status.
	Resubmit(ctx context.Context, v *entity.SellerVerification) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.SellerVerification, error)
	FindAll(ctx context.Context, status string) ([]entity.SellerVerification, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error)
	SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *entity.SellerVerification) error {
	return apperror.FromDB(r.db.WithContext(ctx).Omit("User").Create(v).Error, "verification")
}

func (r *verificationRepository) Resubmit(ctx context.Context, v *entity.SellerVerification) error {
	v.Status = entity.VerificationPending
	err := r.db.WithContext(ctx).
		Model(v).
		Select("full_name", "email", "country", "phone", "address",
			"bank_name", "bank_account", "id_card", "selfie", "status", "updated_at").
		Updates(v).Error
	return apperror.FromDB(err, "verification")
}

func (r *verificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.SellerVerification, error) {
	var v entity.SellerVerification
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, apperror.FromDB(err, "verification")
	}
	return &v, nil
}

func (r *verificationRepository) FindAll(ctx context.Context, status string) ([]entity.SellerVerification, error) {
	records := make([]entity.SellerVerification, 0)
	query := r.db.WithContext(ctx).Model(&entity.SellerVerification{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return records, nil
}

func (r *verificationRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.SellerVerification{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, apperror.Storage(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *verificationRepository) SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("is_verified", verified)
	if res.Error != nil {
		return 0, apperror.Storage(res.Error)
	}
	return res.RowsAffected, nil
}

type OTPRepository interface {
	// Upsert replaces any pending code for the same email.
	Upsert(ctx context.Context, otp *entity.EmailOTP) error
	FindByEmail(ctx context.Context, email string) (*entity.EmailOTP, error)
	// Consume deletes the code and marks the user with that email verified,
	// in one transaction. NotFound when no user has the email.
	Consume(ctx context.Context, email string) error
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Upsert(ctx context.Context, otp *entity.EmailOTP) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at"}),
		}).
		Create(otp).Error
	if err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*entity.EmailOTP, error) {
	var otp entity.EmailOTP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&otp).Error; err != nil {
		return nil, apperror.FromDB(err, "otp")
	}
	return &otp, nil
}

func (r *otpRepository) Consume(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&entity.EmailOTP{}).Error; err != nil {
			return apperror.Storage(err)
		}

		res := tx.Model(&entity.User{}).Where("email = ?", email).UpdateColumn("is_verified", true)
		if res.Error != nil {
			return apperror.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("user not found")
		}
		return nil
	})
}
