package repository

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeenRecipeRepository interface {
	// Insert ignores marks that already exist.
	Insert(ctx context.Context, marks []entity.SeenRecipe) error
	Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

type seenRecipeRepository struct {
	db *gorm.DB
}

func NewSeenRecipeRepository(db *gorm.DB) SeenRecipeRepository {
	return &seenRecipeRepository{db: db}
}

func (r *seenRecipeRepository) Insert(ctx context.Context, marks []entity.SeenRecipe) error {
	if len(marks) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&marks).Error
	return apperror.FromDB(err, "seen mark")
}

func (r *seenRecipeRepository) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SeenRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, apperror.FromDB(err, "seen mark")
	}
	return count > 0, nil
}
