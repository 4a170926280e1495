package dto

import (
	"time"

	"github.com/google/uuid"
)

const EventNewRecipe = "new_recipe"

// RecipeEvent is the payload published on a baker channel. It is a hint to
// refetch the feed; the feed itself is always computed on read.
type RecipeEvent struct {
	Type      string    `json:"type"`
	RecipeID  uuid.UUID `json:"recipe_id"`
	BakerID   uuid.UUID `json:"baker_id"`
	Title     string    `json:"title"`
	MainImage *string   `json:"main_image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
