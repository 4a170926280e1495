package repository

import (
	"context"
	"math"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingSummary is the aggregate stored on the recipe after a review.
type RatingSummary struct {
	Count   int
	Average float64
}

type ReviewRepository interface {
	// Create inserts the review with its images and refreshes the rating
	// aggregate of the recipe in the same transaction.
	Create(ctx context.Context, review *entity.Review) (*RatingSummary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]entity.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (*RatingSummary, error) {
	var summary RatingSummary

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe entity.Recipe
		if err := tx.Select("id").Where("id = ?", review.RecipeID).First(&recipe).Error; err != nil {
			return apperror.FromDB(err, "recipe")
		}

		if err := tx.Omit("User").Create(review).Error; err != nil {
			return apperror.FromDB(err, "review")
		}

		var agg struct {
			Total   int64
			Average float64
		}
		err := tx.Model(&entity.Review{}).
			Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").
			Where("recipe_id = ?", review.RecipeID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		summary.Count = int(agg.Total)
		summary.Average = roundRating(agg.Average)

		return tx.Model(&entity.Recipe{}).
			Where("id = ?", review.RecipeID).
			Updates(map[string]any{
				"rating_count":   summary.Count,
				"average_rating": summary.Average,
			}).Error
	})
	if err != nil {
		return nil, apperror.FromDB(err, "review")
	}
	return &summary, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, apperror.FromDB(err, "review")
	}
	return &review, nil
}

func (r *reviewRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]entity.Review, error) {
	reviews := make([]entity.Review, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return reviews, nil
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
