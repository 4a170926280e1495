package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecipeTypeFree = "free"
	RecipeTypePaid = "paid"
)

type Recipe struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_recipes_owner,priority:1" json:"user_id"`
	Owner         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	CategoryID    *uuid.UUID    `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SubcategoryID *uuid.UUID    `gorm:"type:uuid" json:"subcategory_id"`
	Title         string        `gorm:"size:200;not null" json:"title"`
	Description   string        `gorm:"type:text;not null" json:"description"`
	Ingredients   string        `gorm:"type:text;not null" json:"ingredients"`
	Price         *float64      `gorm:"type:numeric(10,2)" json:"price"`
	RecipeType    string        `gorm:"size:10;not null;default:free;index" json:"recipe_type"`
	MainImage     *string       `gorm:"type:text" json:"main_image"`
	AverageRating float64       `gorm:"default:0" json:"average_rating"`
	RatingCount   int           `gorm:"default:0" json:"rating_count"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;index:idx_recipes_owner,priority:2" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Images        []RecipeImage `gorm:"constraint:OnDelete:CASCADE" json:"additional_images"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// IsFree reports whether the recipe can be read without a purchase.
func (r *Recipe) IsFree() bool {
	return r.RecipeType != RecipeTypePaid
}

// RecipeTypeFor derives free/paid from a price.
func RecipeTypeFor(price *float64) string {
	if price != nil && *price > 0 {
		return RecipeTypePaid
	}
	return RecipeTypeFree
}

type RecipeImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
