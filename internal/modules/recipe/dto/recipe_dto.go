package dto

import (
	"io"
	"time"

	commonDto "anoa.com/recipemarket/pkg/dto"
	"github.com/google/uuid"
)

// MaxAdditionalImages bounds the gallery of one recipe.
const MaxAdditionalImages = 3

// CreateRecipeRequest is bound from a multipart form.
type CreateRecipeRequest struct {
	CategoryID    string   `form:"category_id" binding:"required,uuid"`
	SubcategoryID string   `form:"subcategory_id" binding:"omitempty,uuid"`
	Title         string   `form:"title" binding:"required,max=200"`
	Description   string   `form:"description" binding:"required"`
	Ingredients   string   `form:"ingredients" binding:"required"`
	Price         *float64 `form:"price" binding:"omitempty,gte=0"`
}

type UpdateRecipeRequest struct {
	CategoryID    *string  `form:"category_id" binding:"omitempty,uuid"`
	SubcategoryID *string  `form:"subcategory_id" binding:"omitempty,uuid"`
	Title         *string  `form:"title" binding:"omitempty,max=200"`
	Description   *string  `form:"description"`
	Ingredients   *string  `form:"ingredients"`
	Price         *float64 `form:"price" binding:"omitempty,gte=0"`
}

type ImageUpload struct {
	Reader   io.Reader
	FileName string
}

// RecipeFiles holds the uploaded images. A non-empty Additional replaces
// the whole gallery on update.
type RecipeFiles struct {
	Main       *ImageUpload
	Additional []ImageUpload
}

type RecipeResponse struct {
	ID               uuid.UUID                 `json:"id"`
	Owner            *commonDto.AuthorResponse `json:"owner,omitempty"`
	UserID           uuid.UUID                 `json:"user_id"`
	CategoryID       *uuid.UUID                `json:"category_id"`
	SubcategoryID    *uuid.UUID                `json:"subcategory_id"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	Ingredients      string                    `json:"ingredients"`
	Price            *float64                  `json:"price"`
	RecipeType       string                    `json:"recipe_type"`
	MainImage        *string                   `json:"main_image"`
	AdditionalImages []string                  `json:"additional_images"`
	AverageRating    float64                   `json:"average_rating"`
	RatingCount      int                       `json:"rating_count"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

type RecipeListResponse struct {
	Data []RecipeResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

// PublicationEntry is one row of a baker's publication log.
type PublicationEntry struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
