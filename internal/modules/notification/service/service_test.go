package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/notification/dto"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFollowing map[uuid.UUID][]uuid.UUID

func (f staticFollowing) ListFollowing(_ context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	return f[followerID], nil
}

func newRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPublishNewRecipe_ReachesFollowers(t *testing.T) {
	rdb := newRedis(t)
	user, baker, other := uuid.New(), uuid.New(), uuid.New()
	svc := NewNotificationService(rdb, staticFollowing{user: {baker, other}})
	ctx := context.Background()

	pubsub, err := svc.SubscribeFollowed(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, pubsub)
	defer pubsub.Close()

	recipe := &entity.Recipe{ID: uuid.New(), UserID: baker, Title: "Brioche", CreatedAt: time.Now()}
	require.NoError(t, svc.PublishNewRecipe(ctx, recipe))

	select {
	case msg := <-pubsub.Channel():
		assert.Equal(t, BakerChannel(baker), msg.Channel)

		var event dto.RecipeEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, dto.EventNewRecipe, event.Type)
		assert.Equal(t, recipe.ID, event.RecipeID)
		assert.Equal(t, baker, event.BakerID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestSubscribeFollowed_NoFollows(t *testing.T) {
	svc := NewNotificationService(newRedis(t), staticFollowing{})

	pubsub, err := svc.SubscribeFollowed(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, pubsub)
}

func TestWithoutRedis(t *testing.T) {
	svc := NewNotificationService(nil, staticFollowing{})
	ctx := context.Background()

	assert.NoError(t, svc.PublishNewRecipe(ctx, &entity.Recipe{ID: uuid.New(), UserID: uuid.New()}))

	_, err := svc.SubscribeFollowed(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrStorage)
}
