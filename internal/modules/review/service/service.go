package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/review/dto"
	"anoa.com/recipemarket/internal/modules/review/repository"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/ratelimit"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const rateLimitAction = "review"

type ReviewService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateReviewRequest, images []dto.ImageUpload) (*dto.CreateReviewResponse, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]dto.ReviewResponse, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	imageStorage storage.ImageStorage
	folder       string
	redisClient  *redis.Client
	rateLimit    time.Duration
}

func NewReviewService(
	repo repository.ReviewRepository,
	imageStorage storage.ImageStorage,
	folder string,
	redisClient *redis.Client,
	rateLimit time.Duration,
) ReviewService {
	return &reviewService{
		repo:         repo,
		imageStorage: imageStorage,
		folder:       folder + "/reviews",
		redisClient:  redisClient,
		rateLimit:    rateLimit,
	}
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateReviewRequest, images []dto.ImageUpload) (*dto.CreateReviewResponse, error) {
	if userID == uuid.Nil {
		return nil, apperror.Unauthorized("authorization required")
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		return nil, apperror.Validation("recipe_id must be a valid uuid")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	if len(images) > dto.MaxImages {
		return nil, apperror.Validation(fmt.Sprintf("at most %d images are allowed", dto.MaxImages))
	}

	if err := ratelimit.Enforce(ctx, s.redisClient, userID, rateLimitAction, s.rateLimit); err != nil {
		return nil, err
	}

	review := &entity.Review{
		UserID:   userID,
		RecipeID: recipeID,
		Rating:   req.Rating,
		Review:   strings.TrimSpace(req.Review),
	}

	uploaded := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.upload(ctx, img)
		if err != nil {
			s.cleanup(ctx, uploaded...)
			s.clearRateLimit(ctx, userID)
			return nil, err
		}
		uploaded = append(uploaded, url)
		review.Images = append(review.Images, entity.ReviewImage{Image: url})
	}

	summary, err := s.repo.Create(ctx, review)
	if err != nil {
		s.cleanup(ctx, uploaded...)
		s.clearRateLimit(ctx, userID)
		if apperror.KindOf(err) == apperror.KindConflict {
			return nil, apperror.Conflict("you have already reviewed this recipe")
		}
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}

	return &dto.CreateReviewResponse{
		Message:       "review added successfully",
		Review:        toResponse(created),
		RatingCount:   summary.Count,
		AverageRating: summary.Average,
	}, nil
}

func (s *reviewService) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]dto.ReviewResponse, error) {
	if recipeID == uuid.Nil {
		return nil, apperror.Validation("recipe_id is required")
	}

	reviews, err := s.repo.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		res = append(res, toResponse(&reviews[i]))
	}
	return res, nil
}

func (s *reviewService) upload(ctx context.Context, img dto.ImageUpload) (string, error) {
	if !storage.IsImageFile(img.FileName) {
		return "", apperror.Validation(img.FileName + " is not a supported image type")
	}
	if s.imageStorage == nil {
		return "", apperror.Storage(fmt.Errorf("image storage is not configured"))
	}
	url, err := s.imageStorage.UploadImage(ctx, img.Reader, s.folder, img.FileName)
	if err != nil {
		return "", apperror.Storage(err)
	}
	return url, nil
}

func (s *reviewService) cleanup(ctx context.Context, urls ...string) {
	if len(urls) == 0 {
		return
	}
	if err := storage.DeleteAll(ctx, s.imageStorage, urls...); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to delete review images")
	}
}

func (s *reviewService) clearRateLimit(ctx context.Context, userID uuid.UUID) {
	if err := ratelimit.Clear(ctx, s.redisClient, userID, rateLimitAction); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to clear review rate limit")
	}
}

func toResponse(r *entity.Review) dto.ReviewResponse {
	res := dto.ReviewResponse{
		ID:        r.ID,
		RecipeID:  r.RecipeID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Review:    r.Review,
		Images:    make([]string, 0, len(r.Images)),
		CreatedAt: r.CreatedAt,
	}
	for _, img := range r.Images {
		res.Images = append(res.Images, img.Image)
	}
	if r.User != nil {
		res.User = &commonDto.AuthorResponse{
			ID:        r.User.ID,
			Username:  r.User.Username,
			FullName:  r.User.FullName,
			AvatarURL: r.User.AvatarURL,
		}
	}
	return res
}
