package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeenRecipe records that a user acknowledged a recipe. The composite
// primary key makes the mark idempotent.
type SeenRecipe struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"recipe_id"`
	SeenAt   time.Time `gorm:"autoCreateTime" json:"seen_at"`
}

func (s *SeenRecipe) TableName() string {
	return "seen_recipes"
}
