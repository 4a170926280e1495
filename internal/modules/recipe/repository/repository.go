package repository

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepository interface {
	// Create inserts the recipe and its images in one transaction.
	Create(ctx context.Context, recipe *entity.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error)
	FindAll(ctx context.Context, filter commonDto.RecipeFilter) ([]entity.Recipe, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Recipe, error)
	// Update saves the recipe columns. A non-nil images slice replaces the
	// gallery in the same transaction.
	Update(ctx context.Context, recipe *entity.Recipe, images []entity.RecipeImage) error
	// Delete removes the recipe with its images and returns the number of
	// deleted recipes.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	err := r.db.WithContext(ctx).Omit("Owner", "Category").Create(recipe).Error
	return apperror.FromDB(err, "recipe")
}

func (r *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "recipe")
	}
	return &recipe, nil
}

func (r *recipeRepository) FindAll(ctx context.Context, filter commonDto.RecipeFilter) ([]entity.Recipe, int64, error) {
	recipes := make([]entity.Recipe, 0)
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Recipe{})
	if filter.CategoryID != "" {
		query = query.Where("category_id = ? OR subcategory_id = ?", filter.CategoryID, filter.CategoryID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.RecipeType != "" {
		query = query.Where("recipe_type = ?", filter.RecipeType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Storage(err)
	}

	switch filter.SortBy {
	case "rating":
		query = query.Order("average_rating DESC").Order("created_at DESC")
	case "price":
		query = query.Order("price ASC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	err := query.
		Preload("Owner").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, apperror.Storage(err)
	}

	return recipes, total, nil
}

func (r *recipeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Recipe, error) {
	recipes := make([]entity.Recipe, 0)
	err := r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *entity.Recipe, images []entity.RecipeImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}

		if images == nil {
			return nil
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.RecipeImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].RecipeID = recipe.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		recipe.Images = images
		return nil
	})
	return apperror.FromDB(err, "recipe")
}

func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entity.RecipeImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, apperror.Storage(err)
	}
	return deleted, nil
}
