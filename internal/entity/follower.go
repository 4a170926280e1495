package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follower is a directed follow relation. At most one row exists per
// (follower_id, baker_id); unfollowing deletes it.
type Follower struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_followers_pair,priority:1" json:"follower_id"`
	BakerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_followers_pair,priority:2;index:idx_followers_baker" json:"baker_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Follower) TableName() string {
	return "followers"
}

func (f *Follower) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
