package dto

import "github.com/google/uuid"

// MarkSeenRequest accepts a single recipe_id, a list in recipe_ids, or both.
type MarkSeenRequest struct {
	RecipeID  uuid.UUID   `json:"recipe_id"`
	RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"omitempty,max=100"`
}

func (r MarkSeenRequest) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.RecipeIDs)+1)
	if r.RecipeID != uuid.Nil {
		ids = append(ids, r.RecipeID)
	}
	return append(ids, r.RecipeIDs...)
}

type IsSeenResponse struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Seen     bool      `json:"seen"`
}
