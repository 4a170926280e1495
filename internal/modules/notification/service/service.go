package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/notification/dto"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BakerChannel is the pub/sub channel carrying a baker's new recipes.
func BakerChannel(bakerID uuid.UUID) string {
	return fmt.Sprintf("baker_recipes:%s", bakerID.String())
}

// FollowingLister returns the bakers a user follows.
type FollowingLister interface {
	ListFollowing(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type NotificationService interface {
	// PublishNewRecipe is a no-op without redis.
	PublishNewRecipe(ctx context.Context, recipe *entity.Recipe) error
	// SubscribeFollowed subscribes to the channels of every baker userID
	// follows at call time. It returns nil when the user follows nobody.
	SubscribeFollowed(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error)
}

type notificationService struct {
	redisClient *redis.Client
	following   FollowingLister
}

func NewNotificationService(redisClient *redis.Client, following FollowingLister) NotificationService {
	return &notificationService{
		redisClient: redisClient,
		following:   following,
	}
}

func (s *notificationService) PublishNewRecipe(ctx context.Context, recipe *entity.Recipe) error {
	if s.redisClient == nil || recipe == nil {
		return nil
	}

	payload, err := json.Marshal(dto.RecipeEvent{
		Type:      dto.EventNewRecipe,
		RecipeID:  recipe.ID,
		BakerID:   recipe.UserID,
		Title:     recipe.Title,
		MainImage: recipe.MainImage,
		CreatedAt: recipe.CreatedAt,
	})
	if err != nil {
		return err
	}

	return s.redisClient.Publish(ctx, BakerChannel(recipe.UserID), payload).Err()
}

func (s *notificationService) SubscribeFollowed(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	if s.redisClient == nil {
		return nil, apperror.Storage(errors.New("redis is not configured"))
	}

	bakerIDs, err := s.following.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bakerIDs) == 0 {
		return nil, nil
	}

	channels := make([]string, 0, len(bakerIDs))
	for _, id := range bakerIDs {
		channels = append(channels, BakerChannel(id))
	}

	pubsub := s.redisClient.Subscribe(ctx, channels...)

	// Wait for the subscription to be confirmed before handing it out.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, apperror.Storage(err)
	}

	return pubsub, nil
}
