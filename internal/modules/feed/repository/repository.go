package repository

import (
	"context"

	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedRow is one (followed baker, unseen recipe) pair. RecipeID is nil for a
// followed baker with nothing unseen.
type FeedRow struct {
	BakerID      uuid.UUID
	Username     *string
	FullName     *string
	AvatarURL    *string
	ProfileImage *string
	RecipeID     *uuid.UUID
}

type FeedRepository interface {
	// UnseenByFollowedBaker returns the rows ordered by follow time, then
	// baker id, then recipe publication time.
	UnseenByFollowedBaker(ctx context.Context, userID uuid.UUID) ([]FeedRow, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// followers -> recipes, anti-joined against seen_recipes, in one statement so
// the unseen set is read from a single snapshot.
const unseenByFollowedBakerSQL = `
SELECT
	f.baker_id      AS baker_id,
	u.username      AS username,
	u.full_name     AS full_name,
	u.avatar_url    AS avatar_url,
	b.profile_image AS profile_image,
	r.id            AS recipe_id
FROM followers f
LEFT JOIN users u ON u.id = f.baker_id
LEFT JOIN bakers b ON b.user_id = f.baker_id
LEFT JOIN recipes r ON r.user_id = f.baker_id
	AND NOT EXISTS (
		SELECT 1 FROM seen_recipes s
		WHERE s.user_id = f.follower_id AND s.recipe_id = r.id
	)
WHERE f.follower_id = ?
ORDER BY f.created_at ASC, f.baker_id ASC, r.created_at ASC, r.id ASC`

func (r *feedRepository) UnseenByFollowedBaker(ctx context.Context, userID uuid.UUID) ([]FeedRow, error) {
	rows := make([]FeedRow, 0)
	if err := r.db.WithContext(ctx).Raw(unseenByFollowedBakerSQL, userID).Scan(&rows).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return rows, nil
}
