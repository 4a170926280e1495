package follower

import (
	"context"
	"sync"
	"testing"
	"time"

	"anoa.com/recipemarket/internal/modules/follower/repository"
	"anoa.com/recipemarket/internal/testutil"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) FollowerService {
	db := testutil.NewDB(t)
	return NewFollowerService(repository.NewFollowerRepository(db))
}

func TestFollow_RoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	res, err := svc.Follow(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, a, res.FollowerID)
	assert.Equal(t, b, res.BakerID)
	assert.False(t, res.CreatedAt.IsZero())

	following, err := svc.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, svc.Unfollow(ctx, a, b))

	following, err = svc.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollow_Duplicate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := svc.Follow(ctx, a, b)
	require.NoError(t, err)

	_, err = svc.Follow(ctx, a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestFollow_ConcurrentDuplicatesYieldOneRow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Follow(ctx, a, b)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	count, err := svc.CountFollowers(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollow_AfterUnfollowCreatesNewRecord(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	first, err := svc.Follow(ctx, a, b)
	require.NoError(t, err)
	require.NoError(t, svc.Unfollow(ctx, a, b))

	second, err := svc.Follow(ctx, a, b)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFollow_MissingIDs(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Follow(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Follow(ctx, uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.Unfollow(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUnfollow_WithoutFollow(t *testing.T) {
	svc := newService(t)

	err := svc.Unfollow(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListAndCountFollowers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFollowerService(repository.NewFollowerRepository(db))
	ctx := context.Background()

	baker := uuid.New()
	base := time.Now().Add(-time.Hour)
	f1, f2 := uuid.New(), uuid.New()
	testutil.Follow(t, db, f1, baker, base)
	testutil.Follow(t, db, f2, baker, base.Add(time.Minute))
	testutil.Follow(t, db, f1, uuid.New(), base)

	followers, err := svc.ListFollowers(ctx, baker)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, f1, followers[0].FollowerID)
	assert.Equal(t, f2, followers[1].FollowerID)

	count, err := svc.CountFollowers(ctx, baker)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestListFollowers_EmptyIsNotAnError(t *testing.T) {
	svc := newService(t)

	followers, err := svc.ListFollowers(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, followers)
	assert.Empty(t, followers)

	count, err := svc.CountFollowers(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListFollowing_FollowOrder(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFollowerService(repository.NewFollowerRepository(db))

	user := uuid.New()
	b1, b2 := uuid.New(), uuid.New()
	base := time.Now().Add(-time.Hour)
	testutil.Follow(t, db, user, b2, base)
	testutil.Follow(t, db, user, b1, base.Add(time.Minute))

	ids, err := svc.ListFollowing(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b2, b1}, ids)
}
