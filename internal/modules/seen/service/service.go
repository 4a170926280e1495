package seen

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/seen/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
)

type SeenService interface {
	// MarkSeen is idempotent: marking an already seen recipe succeeds
	// without creating a second row.
	MarkSeen(ctx context.Context, userID, recipeID uuid.UUID) error
	MarkSeenBatch(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) error
	IsSeen(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

type seenService struct {
	repo repository.SeenRecipeRepository
}

func NewSeenService(repo repository.SeenRecipeRepository) SeenService {
	return &seenService{repo: repo}
}

func (s *seenService) MarkSeen(ctx context.Context, userID, recipeID uuid.UUID) error {
	if userID == uuid.Nil || recipeID == uuid.Nil {
		return apperror.Validation("user_id and recipe_id are required")
	}
	return s.repo.Insert(ctx, []entity.SeenRecipe{{UserID: userID, RecipeID: recipeID}})
}

func (s *seenService) MarkSeenBatch(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.Validation("user_id is required")
	}
	if len(recipeIDs) == 0 {
		return apperror.Validation("recipe_id is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(recipeIDs))
	marks := make([]entity.SeenRecipe, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		if id == uuid.Nil {
			return apperror.Validation("recipe_ids must not contain empty ids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		marks = append(marks, entity.SeenRecipe{UserID: userID, RecipeID: id})
	}

	return s.repo.Insert(ctx, marks)
}

func (s *seenService) IsSeen(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || recipeID == uuid.Nil {
		return false, apperror.Validation("user_id and recipe_id are required")
	}
	return s.repo.Exists(ctx, userID, recipeID)
}
