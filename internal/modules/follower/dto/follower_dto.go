package dto

import (
	"time"

	"github.com/google/uuid"
)

type FollowRequest struct {
	BakerID uuid.UUID `json:"baker_id" binding:"required"`
}

type FollowerResponse struct {
	ID         uuid.UUID `json:"id"`
	FollowerID uuid.UUID `json:"follower_id"`
	BakerID    uuid.UUID `json:"baker_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowerCountResponse struct {
	BakerID       uuid.UUID `json:"baker_id"`
	FollowerCount int64     `json:"follower_count"`
}

type IsFollowingResponse struct {
	IsFollowing bool `json:"is_following"`
}
