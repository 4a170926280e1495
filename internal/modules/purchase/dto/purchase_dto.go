package dto

import (
	"time"

	"github.com/google/uuid"
)

// Per-recipe outcomes of a purchase request.
const (
	StatusSuccess          = "success"
	StatusAlreadyPurchased = "already_purchased"
	StatusRecipeNotFound   = "recipe_not_found"
	StatusRecipeFree       = "recipe_free"
)

type BuyRecipesRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required,min=1,max=50"`
}

type PurchaseResult struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Status   string    `json:"status"`
}

type BuyRecipesResponse struct {
	Message          string           `json:"message"`
	ProcessedRecipes []PurchaseResult `json:"processed_recipes"`
}

type PurchaseResponse struct {
	ID          uuid.UUID `json:"id"`
	RecipeID    uuid.UUID `json:"recipe_id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
	Title       string    `json:"title"`
	MainImage   *string   `json:"main_image"`
	RecipeType  string    `json:"recipe_type"`
}

type HasPurchasedResponse struct {
	HasPurchased bool `json:"has_purchased"`
}
