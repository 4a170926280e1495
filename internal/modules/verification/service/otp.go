package verification

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/verification/dto"
	"anoa.com/recipemarket/internal/modules/verification/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/mailer"
	"anoa.com/recipemarket/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

const (
	// OTPTTL is how long an emailed code stays valid.
	OTPTTL = 10 * time.Minute

	otpRateLimitAction = "otp"
)

type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// OTPService verifies that a user owns their email address.
type OTPService interface {
	Generate(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
	CheckVerification(ctx context.Context, email string) (*dto.EmailVerificationResponse, error)
}

type otpService struct {
	repo        repository.OTPRepository
	users       UserLookup
	mailer      mailer.Mailer
	redisClient *redis.Client
	rateLimit   time.Duration
	now         func() time.Time
}

func NewOTPService(
	repo repository.OTPRepository,
	users UserLookup,
	m mailer.Mailer,
	redisClient *redis.Client,
	rateLimit time.Duration,
) OTPService {
	return &otpService{
		repo:        repo,
		users:       users,
		mailer:      m,
		redisClient: redisClient,
		rateLimit:   rateLimit,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateCode returns a random six digit code without a leading zero.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Generate stores a fresh code for email, replacing any earlier one, and
// mails it.
func (s *otpService) Generate(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperror.Validation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := ratelimit.Enforce(ctx, s.redisClient, user.ID, otpRateLimitAction, s.rateLimit); err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &entity.EmailOTP{Email: email, Code: code, ExpiresAt: s.now().Add(OTPTTL)}
	if err := s.repo.Upsert(ctx, otp); err != nil {
		s.clearRateLimit(ctx, user)
		return err
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Your OTP Code",
		Body:    fmt.Sprintf("Your OTP code is %s. It will expire in %d minutes.", code, int(OTPTTL.Minutes())),
	})
	if err != nil {
		s.clearRateLimit(ctx, user)
		return apperror.New(http.StatusBadGateway, "failed to send otp email", err)
	}
	return nil
}

// Verify consumes a matching, unexpired code and marks the user verified.
func (s *otpService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return apperror.Validation("email and otp are required")
	}

	otp, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Validation("otp not found, request a new one")
		}
		return err
	}

	if s.now().After(otp.ExpiresAt) {
		return apperror.Validation("otp has expired, request a new one")
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return apperror.Validation("invalid otp")
	}

	return s.repo.Consume(ctx, email)
}

func (s *otpService) CheckVerification(ctx context.Context, email string) (*dto.EmailVerificationResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperror.Validation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &dto.EmailVerificationResponse{Email: user.Email, IsVerified: user.IsVerified}, nil
}

func (s *otpService) clearRateLimit(ctx context.Context, user *entity.User) {
	if err := ratelimit.Clear(ctx, s.redisClient, user.ID, otpRateLimitAction); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to clear otp rate limit")
	}
}
