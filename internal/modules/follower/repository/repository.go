package repository

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowerRepository interface {
	Create(ctx context.Context, follower *entity.Follower) error
	// Delete returns the number of rows removed.
	Delete(ctx context.Context, followerID, bakerID uuid.UUID) (int64, error)
	Exists(ctx context.Context, followerID, bakerID uuid.UUID) (bool, error)
	FindByBaker(ctx context.Context, bakerID uuid.UUID) ([]entity.Follower, error)
	CountByBaker(ctx context.Context, bakerID uuid.UUID) (int64, error)
	FindBakerIDsByFollower(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	TopBakersByFollowers(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

// Create relies on the (follower_id, baker_id) unique index; a duplicate
// surfaces as a conflict instead of being checked beforehand.
func (r *followerRepository) Create(ctx context.Context, follower *entity.Follower) error {
	err := r.db.WithContext(ctx).Create(follower).Error
	return apperror.FromDB(err, "follow relation")
}

func (r *followerRepository) Delete(ctx context.Context, followerID, bakerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND baker_id = ?", followerID, bakerID).
		Delete(&entity.Follower{})
	if res.Error != nil {
		return 0, apperror.FromDB(res.Error, "follow relation")
	}
	return res.RowsAffected, nil
}

func (r *followerRepository) Exists(ctx context.Context, followerID, bakerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follower{}).
		Where("follower_id = ? AND baker_id = ?", followerID, bakerID).
		Count(&count).Error
	if err != nil {
		return false, apperror.FromDB(err, "follow relation")
	}
	return count > 0, nil
}

func (r *followerRepository) FindByBaker(ctx context.Context, bakerID uuid.UUID) ([]entity.Follower, error) {
	followers := make([]entity.Follower, 0)
	err := r.db.WithContext(ctx).
		Where("baker_id = ?", bakerID).
		Order("created_at asc, id asc").
		Find(&followers).Error
	if err != nil {
		return nil, apperror.FromDB(err, "follow relation")
	}
	return followers, nil
}

func (r *followerRepository) CountByBaker(ctx context.Context, bakerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follower{}).
		Where("baker_id = ?", bakerID).
		Count(&count).Error
	if err != nil {
		return 0, apperror.FromDB(err, "follow relation")
	}
	return count, nil
}

func (r *followerRepository) FindBakerIDsByFollower(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := r.db.WithContext(ctx).
		Model(&entity.Follower{}).
		Where("follower_id = ?", followerID).
		Order("created_at asc, baker_id asc").
		Pluck("baker_id", &ids).Error
	if err != nil {
		return nil, apperror.FromDB(err, "follow relation")
	}
	return ids, nil
}

func (r *followerRepository) TopBakersByFollowers(ctx context.Context, limit int) ([]uuid.UUID, error) {
	type row struct {
		BakerID uuid.UUID
		Total   int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&entity.Follower{}).
		Select("baker_id, count(*) as total").
		Group("baker_id").
		Order("total desc, baker_id asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, "follow relation")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.BakerID)
	}
	return ids, nil
}
