package feed

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/feed/dto"
	"anoa.com/recipemarket/internal/modules/feed/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
)

type FeedService interface {
	// BuildFeed returns one entry per followed baker, including bakers with
	// no unseen recipes. It performs no writes and is never cached.
	BuildFeed(ctx context.Context, userID uuid.UUID) ([]dto.NotificationFeedEntry, error)
}

type feedService struct {
	repo repository.FeedRepository
}

func NewFeedService(repo repository.FeedRepository) FeedService {
	return &feedService{repo: repo}
}

func (s *feedService) BuildFeed(ctx context.Context, userID uuid.UUID) ([]dto.NotificationFeedEntry, error) {
	if userID == uuid.Nil {
		return nil, apperror.Validation("user_id is required")
	}

	rows, err := s.repo.UnseenByFollowedBaker(ctx, userID)
	if err != nil {
		return nil, err
	}

	return groupByBaker(rows), nil
}

// groupByBaker folds consecutive rows of the same baker into one entry,
// keeping the row order.
func groupByBaker(rows []repository.FeedRow) []dto.NotificationFeedEntry {
	entries := make([]dto.NotificationFeedEntry, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		i, ok := index[row.BakerID]
		if !ok {
			name, image := displayProfile(row)
			entries = append(entries, dto.NotificationFeedEntry{
				BakerID:           row.BakerID,
				BakerDisplayName:  name,
				BakerProfileImage: image,
				UnseenRecipeIDs:   make([]uuid.UUID, 0),
			})
			i = len(entries) - 1
			index[row.BakerID] = i
		}

		if row.RecipeID != nil {
			entries[i].UnseenRecipeIDs = append(entries[i].UnseenRecipeIDs, *row.RecipeID)
		}
	}

	for i := range entries {
		entries[i].NewRecipeCount = len(entries[i].UnseenRecipeIDs)
	}

	return entries
}

func displayProfile(row repository.FeedRow) (string, *string) {
	return entity.DisplayProfile(deref(row.FullName), deref(row.Username), row.ProfileImage, row.AvatarURL)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
