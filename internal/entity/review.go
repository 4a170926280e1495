package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_recipe,priority:1" json:"user_id"`
	User      *User         `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RecipeID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_recipe,priority:2;index" json:"recipe_id"`
	Rating    int           `gorm:"not null" json:"rating"`
	Review    string        `gorm:"type:text" json:"review"`
	Images    []ReviewImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

type ReviewImage struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	Image    string    `gorm:"type:text;not null" json:"image"`
}
