package repository

import (
	"context"
	"strings"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context, search string, parentID *uuid.UUID) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// Delete returns the number of deleted rows.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return apperror.FromDB(r.db.WithContext(ctx).Create(category).Error, "category")
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, search string, parentID *uuid.UUID) ([]entity.Category, error) {
	categories := make([]entity.Category, 0)
	query := r.db.WithContext(ctx).Model(&entity.Category{})

	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	}

	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	err := r.db.WithContext(ctx).
		Model(category).
		Select("name", "slug", "description", "parent_id").
		Updates(category).Error
	return apperror.FromDB(err, "category")
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)
	if res.Error != nil {
		return 0, apperror.Storage(res.Error)
	}
	return res.RowsAffected, nil
}
