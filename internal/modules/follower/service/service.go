package follower

import (
	"context"
	"errors"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/follower/dto"
	"anoa.com/recipemarket/internal/modules/follower/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
)

type FollowerService interface {
	Follow(ctx context.Context, followerID, bakerID uuid.UUID) (*dto.FollowerResponse, error)
	Unfollow(ctx context.Context, followerID, bakerID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, bakerID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, bakerID uuid.UUID) ([]dto.FollowerResponse, error)
	CountFollowers(ctx context.Context, bakerID uuid.UUID) (int64, error)
	ListFollowing(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type followerService struct {
	repo repository.FollowerRepository
}

func NewFollowerService(repo repository.FollowerRepository) FollowerService {
	return &followerService{repo: repo}
}

func requirePair(followerID, bakerID uuid.UUID) error {
	if followerID == uuid.Nil || bakerID == uuid.Nil {
		return apperror.Validation("follower_id and baker_id are required")
	}
	return nil
}

func (s *followerService) Follow(ctx context.Context, followerID, bakerID uuid.UUID) (*dto.FollowerResponse, error) {
	if err := requirePair(followerID, bakerID); err != nil {
		return nil, err
	}

	follower := &entity.Follower{
		FollowerID: followerID,
		BakerID:    bakerID,
	}

	if err := s.repo.Create(ctx, follower); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("already following this baker")
		}
		return nil, err
	}

	resp := toResponse(follower)
	return &resp, nil
}

func (s *followerService) Unfollow(ctx context.Context, followerID, bakerID uuid.UUID) error {
	if err := requirePair(followerID, bakerID); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, followerID, bakerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("follow relation not found")
	}
	return nil
}

func (s *followerService) IsFollowing(ctx context.Context, followerID, bakerID uuid.UUID) (bool, error) {
	if err := requirePair(followerID, bakerID); err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, followerID, bakerID)
}

func (s *followerService) ListFollowers(ctx context.Context, bakerID uuid.UUID) ([]dto.FollowerResponse, error) {
	if bakerID == uuid.Nil {
		return nil, apperror.Validation("baker_id is required")
	}

	followers, err := s.repo.FindByBaker(ctx, bakerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FollowerResponse, 0, len(followers))
	for i := range followers {
		responses = append(responses, toResponse(&followers[i]))
	}
	return responses, nil
}

func (s *followerService) CountFollowers(ctx context.Context, bakerID uuid.UUID) (int64, error) {
	if bakerID == uuid.Nil {
		return 0, apperror.Validation("baker_id is required")
	}
	return s.repo.CountByBaker(ctx, bakerID)
}

func (s *followerService) ListFollowing(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	if followerID == uuid.Nil {
		return nil, apperror.Validation("follower_id is required")
	}
	return s.repo.FindBakerIDsByFollower(ctx, followerID)
}

func toResponse(f *entity.Follower) dto.FollowerResponse {
	return dto.FollowerResponse{
		ID:         f.ID,
		FollowerID: f.FollowerID,
		BakerID:    f.BakerID,
		CreatedAt:  f.CreatedAt,
	}
}
