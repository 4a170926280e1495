package dto

import (
	"io"
	"time"

	commonDto "anoa.com/recipemarket/pkg/dto"
	"github.com/google/uuid"
)

// MaxImages bounds the photos attached to one review.
const MaxImages = 3

// CreateReviewRequest is bound from a multipart form or JSON body.
type CreateReviewRequest struct {
	RecipeID string `form:"recipe_id" json:"recipe_id" binding:"required,uuid"`
	Rating   int    `form:"rating" json:"rating" binding:"required,min=1,max=5"`
	Review   string `form:"review" json:"review" binding:"max=2000"`
}

type ImageUpload struct {
	Reader   io.Reader
	FileName string
}

type ReviewResponse struct {
	ID        uuid.UUID                 `json:"id"`
	RecipeID  uuid.UUID                 `json:"recipe_id"`
	UserID    uuid.UUID                 `json:"user_id"`
	User      *commonDto.AuthorResponse `json:"user,omitempty"`
	Rating    int                       `json:"rating"`
	Review    string                    `json:"review"`
	Images    []string                  `json:"images"`
	CreatedAt time.Time                 `json:"created_at"`
}

type CreateReviewResponse struct {
	Message       string         `json:"message"`
	Review        ReviewResponse `json:"review"`
	RatingCount   int            `json:"rating_count"`
	AverageRating float64        `json:"average_rating"`
}
