// Package testutil holds fixtures shared by repository, service and handler
// tests. It is never imported by production code.
package testutil

import (
	"testing"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. A single pooled
// connection keeps the in-memory schema alive for the whole test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(entity.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     "",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateBaker creates a user and its baker profile.
func CreateBaker(t *testing.T, db *gorm.DB, username, fullName, image string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     fullName,
	}
	require.NoError(t, db.Create(user).Error)

	baker := &entity.Baker{UserID: user.ID}
	if image != "" {
		baker.ProfileImage = &image
	}
	require.NoError(t, db.Create(baker).Error)

	return user
}

func CreateRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string, price *float64) *entity.Recipe {
	t.Helper()

	recipe := &entity.Recipe{
		UserID:      ownerID,
		Title:       title,
		Description: title + " description",
		Ingredients: "flour, sugar",
		Price:       price,
		RecipeType:  entity.RecipeTypeFor(price),
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// Follow inserts a follow relation with an explicit timestamp so feed order
// is predictable.
func Follow(t *testing.T, db *gorm.DB, followerID, bakerID uuid.UUID, at time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&entity.Follower{
		FollowerID: followerID,
		BakerID:    bakerID,
		CreatedAt:  at,
	}).Error)
}

func Price(v float64) *float64 {
	return &v
}
