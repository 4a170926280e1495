package dto

import "github.com/google/uuid"

// NotificationFeedEntry summarises the recipes of one followed baker that
// the user has not marked seen. NewRecipeCount always equals
// len(UnseenRecipeIDs).
type NotificationFeedEntry struct {
	BakerID           uuid.UUID   `json:"baker_id"`
	BakerDisplayName  string      `json:"baker_display_name"`
	BakerProfileImage *string     `json:"baker_profile_image"`
	NewRecipeCount    int         `json:"new_recipe_count"`
	UnseenRecipeIDs   []uuid.UUID `json:"unseen_recipe_ids"`
}
