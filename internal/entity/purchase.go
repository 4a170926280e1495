package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is a ledger row. Price is the recipe price at purchase time.
type Purchase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_buyer_recipe,priority:2" json:"recipe_id"`
	Recipe      *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	BuyerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_buyer_recipe,priority:1" json:"buyer_id"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	PurchasedAt time.Time `gorm:"autoCreateTime;index" json:"purchased_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
