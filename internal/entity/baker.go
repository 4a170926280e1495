package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Baker is the seller profile of a user. Recipes, follows and purchases all
// reference the baker by its user id.
type Baker struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ProfileImage     *string   `gorm:"type:text" json:"profile_image"`
	Country          string    `gorm:"size:100" json:"country"`
	Flag             string    `gorm:"size:20" json:"flag"`
	IsTop10Sales     bool      `gorm:"column:is_top10_sales;default:false" json:"is_top10_sales"`
	IsTop10Followers bool      `gorm:"column:is_top10_followers;default:false" json:"is_top10_followers"`
	Rating           float64   `gorm:"default:0" json:"rating"`
	Score            int       `gorm:"default:0" json:"score"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Baker) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}

// DisplayProfile resolves how a baker is shown to other users. The full
// name falls back to the username, the baker image to the user avatar.
// Empty strings count as missing.
func DisplayProfile(fullName, username string, bakerImage, avatarURL *string) (string, *string) {
	name := fullName
	if name == "" {
		name = username
	}

	image := bakerImage
	if image == nil || *image == "" {
		image = avatarURL
	}
	if image != nil && *image == "" {
		image = nil
	}
	return name, image
}
