package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/recipemarket/internal/entity"
	search "anoa.com/recipemarket/internal/modules/search/service"
	"anoa.com/recipemarket/internal/modules/user/dto"
	"anoa.com/recipemarket/internal/modules/user/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperror.Unauthorized("invalid credentials")

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type authService struct {
	repo     repository.UserRepository
	search   search.SearchService
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService builds the auth service. searchSvc may be nil, in which
// case no search token is issued.
func NewAuthService(repo repository.UserRepository, searchSvc search.SearchService, cfg TokenConfig) AuthService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &authService{
		repo:     repo,
		search:   searchSvc,
		secret:   []byte(cfg.Secret),
		tokenTTL: ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := &entity.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         entity.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("email or username already registered")
		}
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if id == uuid.Nil {
		return nil, apperror.Validation("user_id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	var searchToken string
	if s.search != nil {
		st, err := s.search.GenerateSearchToken(user.Role)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to generate search token")
		} else {
			searchToken = st
		}
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		SearchToken: searchToken,
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, apperror.New(http.StatusInternalServerError, "failed to sign token", err)
	}

	return signed, expiresAt.Unix(), nil
}
