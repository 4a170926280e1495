package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/verification/dto"
	"anoa.com/recipemarket/internal/modules/verification/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/google/uuid"
)

// VerificationService handles seller identity checks: users submit their
// documents, admins review them.
type VerificationService interface {
	Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitVerificationRequest, idCard, selfie dto.DocumentUpload) (*dto.VerificationResponse, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*dto.VerificationResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*dto.StatusResponse, error)
	List(ctx context.Context, status string) ([]dto.VerificationResponse, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) (*dto.VerificationResponse, error)
	SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) error
}

type verificationService struct {
	repo         repository.VerificationRepository
	imageStorage storage.ImageStorage
	folder       string
}

func NewVerificationService(
	repo repository.VerificationRepository,
	imageStorage storage.ImageStorage,
	folder string,
) VerificationService {
	return &verificationService{
		repo:         repo,
		imageStorage: imageStorage,
		folder:       folder + "/verifications",
	}
}

// Submit stores a new verification. A rejected submission may be replaced;
// a pending or approved one is a conflict.
func (s *verificationService) Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitVerificationRequest, idCard, selfie dto.DocumentUpload) (*dto.VerificationResponse, error) {
	if userID == uuid.Nil {
		return nil, apperror.Unauthorized("authorization required")
	}
	if idCard.Reader == nil || selfie.Reader == nil {
		return nil, apperror.Validation("id_card and selfie are required")
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	switch {
	case err == nil && existing.Status != entity.VerificationRejected:
		return nil, apperror.Conflict("verification already submitted")
	case err != nil && !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	idCardURL, err := s.upload(ctx, idCard)
	if err != nil {
		return nil, err
	}
	selfieURL, err := s.upload(ctx, selfie)
	if err != nil {
		s.cleanup(ctx, idCardURL)
		return nil, err
	}

	record := &entity.SellerVerification{UserID: userID}
	var oldDocs []string
	if existing != nil {
		record = existing
		oldDocs = []string{existing.IDCard, existing.Selfie}
	}
	record.FullName = strings.TrimSpace(req.FullName)
	record.Email = strings.ToLower(strings.TrimSpace(req.Email))
	record.Country = strings.TrimSpace(req.Country)
	record.Phone = strings.TrimSpace(req.Phone)
	record.Address = strings.TrimSpace(req.Address)
	record.BankName = strings.TrimSpace(req.BankName)
	record.BankAccount = strings.TrimSpace(req.BankAccount)
	record.IDCard = idCardURL
	record.Selfie = selfieURL

	if existing != nil {
		err = s.repo.Resubmit(ctx, record)
	} else {
		err = s.repo.Create(ctx, record)
	}
	if err != nil {
		s.cleanup(ctx, idCardURL, selfieURL)
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("verification already submitted")
		}
		return nil, err
	}

	s.cleanup(ctx, oldDocs...)

	res := toResponse(record)
	return &res, nil
}

func (s *verificationService) GetMine(ctx context.Context, userID uuid.UUID) (*dto.VerificationResponse, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := toResponse(record)
	return &res, nil
}

func (s *verificationService) GetStatus(ctx context.Context, userID uuid.UUID) (*dto.StatusResponse, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{UserID: record.UserID, Status: record.Status}, nil
}

func (s *verificationService) List(ctx context.Context, status string) ([]dto.VerificationResponse, error) {
	if status != "" && !entity.IsVerificationStatus(status) {
		return nil, apperror.Validation("status must be one of pending, approved, rejected")
	}

	records, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	res := make([]dto.VerificationResponse, 0, len(records))
	for i := range records {
		res = append(res, toResponse(&records[i]))
	}
	return res, nil
}

func (s *verificationService) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) (*dto.VerificationResponse, error) {
	if !entity.IsVerificationStatus(status) {
		return nil, apperror.Validation("status must be one of pending, approved, rejected")
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, apperror.NotFound("verification not found")
	}

	logger.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Str("status", status).
		Msg("seller verification status changed")

	return s.GetMine(ctx, userID)
}

func (s *verificationService) SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	updated, err := s.repo.SetUserVerified(ctx, userID, verified)
	if err != nil {
		return err
	}
	if updated == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (s *verificationService) upload(ctx context.Context, doc dto.DocumentUpload) (string, error) {
	if !storage.IsImageFile(doc.FileName) {
		return "", apperror.Validation(doc.FileName + " is not a supported image type")
	}
	if s.imageStorage == nil {
		return "", apperror.Storage(fmt.Errorf("image storage is not configured"))
	}
	url, err := s.imageStorage.UploadImage(ctx, doc.Reader, s.folder, doc.FileName)
	if err != nil {
		return "", apperror.Storage(err)
	}
	return url, nil
}

func (s *verificationService) cleanup(ctx context.Context, urls ...string) {
	if len(urls) == 0 {
		return
	}
	if err := storage.DeleteAll(ctx, s.imageStorage, urls...); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to delete verification documents")
	}
}

func toResponse(v *entity.SellerVerification) dto.VerificationResponse {
	return dto.VerificationResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		FullName:    v.FullName,
		Email:       v.Email,
		Country:     v.Country,
		Phone:       v.Phone,
		Address:     v.Address,
		BankName:    v.BankName,
		BankAccount: v.BankAccount,
		IDCard:      v.IDCard,
		Selfie:      v.Selfie,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
