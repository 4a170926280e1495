package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type CreateBakerRequest struct {
	Country string `json:"country" binding:"max=100"`
	Flag    string `json:"flag" binding:"max=20"`
}

type UpdateBakerRequest struct {
	Country *string `json:"country" binding:"omitempty,max=100"`
	Flag    *string `json:"flag" binding:"omitempty,max=20"`
}

type ImageFile struct {
	Reader   io.Reader
	FileName string
}

type BakerResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	ProfileImage     *string   `json:"profile_image"`
	Country          string    `json:"country"`
	Flag             string    `json:"flag"`
	IsTop10Sales     bool      `json:"is_top10_sales"`
	IsTop10Followers bool      `json:"is_top10_followers"`
	Rating           float64   `json:"rating"`
	Score            int       `json:"score"`
	CreatedAt        time.Time `json:"created_at"`
}

// DisplayInfo is what other modules need to render a baker.
type DisplayInfo struct {
	Name            string  `json:"name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type BakerListResponse struct {
	Data  []BakerResponse `json:"data"`
	Total int64           `json:"total"`
}
