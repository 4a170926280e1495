package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/recipemarket/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopBakersByFollowers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowerRepository(db)
	now := time.Now()

	popular, quiet := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		testutil.Follow(t, db, uuid.New(), popular, now)
	}
	testutil.Follow(t, db, uuid.New(), quiet, now)

	ids, err := repo.TopBakersByFollowers(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{popular}, ids)

	ids, err = repo.TopBakersByFollowers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{popular, quiet}, ids)
}

func TestDelete_ReportsAffectedRows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowerRepository(db)
	a, b := uuid.New(), uuid.New()

	n, err := repo.Delete(context.Background(), a, b)
	require.NoError(t, err)
	assert.Zero(t, n)

	testutil.Follow(t, db, a, b, time.Now())

	n, err = repo.Delete(context.Background(), a, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
