// Package bootstrap prepares the database schema and seed data at startup.
package bootstrap

import (
	"context"
	"errors"
	"strings"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.All()...)
}

// SeedAdminUser creates an admin account when none exists for email.
// Promoting an existing non-admin account is left to operators.
func SeedAdminUser(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info().Str("email", email).Msg("admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     "Administrator",
		Role:         entity.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	logger.Info().Str("email", email).Msg("admin user seeded")
	return nil
}
