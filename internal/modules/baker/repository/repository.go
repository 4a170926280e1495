package repository

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BakerRepository interface {
	Create(ctx context.Context, baker *entity.Baker) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Baker, error)
	FindAll(ctx context.Context, limit, offset int) ([]entity.Baker, int64, error)
	Update(ctx context.Context, baker *entity.Baker) error
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, url string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// SetTopFlags replaces both top-10 flags across all bakers.
	SetTopFlags(ctx context.Context, topSales, topFollowers []uuid.UUID) error
}

type bakerRepository struct {
	db *gorm.DB
}

func NewBakerRepository(db *gorm.DB) BakerRepository {
	return &bakerRepository{db: db}
}

func (r *bakerRepository) Create(ctx context.Context, baker *entity.Baker) error {
	return apperror.FromDB(r.db.WithContext(ctx).Create(baker).Error, "baker")
}

func (r *bakerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Baker, error) {
	var baker entity.Baker
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&baker).Error
	if err != nil {
		return nil, apperror.FromDB(err, "baker")
	}
	return &baker, nil
}

func (r *bakerRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Baker, int64, error) {
	bakers := make([]entity.Baker, 0)
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Baker{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.Storage(err)
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("score DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&bakers).Error
	if err != nil {
		return nil, 0, apperror.Storage(err)
	}

	return bakers, total, nil
}

func (r *bakerRepository) Update(ctx context.Context, baker *entity.Baker) error {
	return apperror.FromDB(r.db.WithContext(ctx).Omit("User").Save(baker).Error, "baker")
}

func (r *bakerRepository) UpdateProfileImage(ctx context.Context, userID uuid.UUID, url string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Baker{}).
		Where("user_id = ?", userID).
		Update("profile_image", url)
	if res.Error != nil {
		return apperror.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("baker not found")
	}
	return nil
}

func (r *bakerRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Baker{})
	if res.Error != nil {
		return 0, apperror.Storage(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *bakerRepository) SetTopFlags(ctx context.Context, topSales, topFollowers []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Baker{}).
			Where("is_top10_sales = ? OR is_top10_followers = ?", true, true).
			Updates(map[string]any{"is_top10_sales": false, "is_top10_followers": false}).Error; err != nil {
			return err
		}

		if len(topSales) > 0 {
			if err := tx.Model(&entity.Baker{}).
				Where("user_id IN ?", topSales).
				Update("is_top10_sales", true).Error; err != nil {
				return err
			}
		}

		if len(topFollowers) > 0 {
			if err := tx.Model(&entity.Baker{}).
				Where("user_id IN ?", topFollowers).
				Update("is_top10_followers", true).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return apperror.Storage(err)
	}
	return nil
}
