package repository

import (
	"context"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	// FindRecipes loads the pricing columns of the given recipes.
	FindRecipes(ctx context.Context, ids []uuid.UUID) ([]entity.Recipe, error)
	// Record inserts the purchases in one transaction, skipping rows whose
	// (buyer, recipe) pair already exists. inserted[i] reports whether
	// purchases[i] created a row.
	Record(ctx context.Context, purchases []entity.Purchase) (inserted []bool, err error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entity.Purchase, error)
	Exists(ctx context.Context, buyerID, recipeID uuid.UUID) (bool, error)
	TopSellers(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) FindRecipes(ctx context.Context, ids []uuid.UUID) ([]entity.Recipe, error) {
	recipes := make([]entity.Recipe, 0, len(ids))
	if len(ids) == 0 {
		return recipes, nil
	}

	err := r.db.WithContext(ctx).
		Select("id", "user_id", "price", "recipe_type").
		Where("id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return recipes, nil
}

func (r *purchaseRepository) Record(ctx context.Context, purchases []entity.Purchase) ([]bool, error) {
	inserted := make([]bool, len(purchases))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range purchases {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&purchases[i])
			if res.Error != nil {
				return res.Error
			}
			inserted[i] = res.RowsAffected > 0
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return inserted, nil
}

func (r *purchaseRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entity.Purchase, error) {
	purchases := make([]entity.Purchase, 0)
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("buyer_id = ?", buyerID).
		Order("purchased_at DESC").
		Order("id DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return purchases, nil
}

func (r *purchaseRepository) Exists(ctx context.Context, buyerID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Purchase{}).
		Where("buyer_id = ? AND recipe_id = ?", buyerID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, apperror.Storage(err)
	}
	return count > 0, nil
}

func (r *purchaseRepository) TopSellers(ctx context.Context, limit int) ([]uuid.UUID, error) {
	type row struct {
		SellerID uuid.UUID
		Total    int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&entity.Purchase{}).
		Select("seller_id, count(*) as total").
		Group("seller_id").
		Order("total desc, seller_id asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SellerID)
	}
	return ids, nil
}
