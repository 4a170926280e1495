package baker

import (
	"context"
	"strings"
	"testing"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/baker/dto"
	"anoa.com/recipemarket/internal/modules/baker/repository"
	"anoa.com/recipemarket/internal/testutil"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticRanking []uuid.UUID

func (r staticRanking) TopBakersByFollowers(context.Context, int) ([]uuid.UUID, error) {
	return r, nil
}

func (r staticRanking) TopSellers(context.Context, int) ([]uuid.UUID, error) {
	return r, nil
}

type fixture struct {
	db    *gorm.DB
	store *testutil.MemoryStorage
	svc   BakerService
}

func newFixture(t *testing.T, followers, sales staticRanking) *fixture {
	db := testutil.NewDB(t)
	store := testutil.NewMemoryStorage()
	return &fixture{
		db:    db,
		store: store,
		svc:   NewBakerService(repository.NewBakerRepository(db), store, "test", followers, sales),
	}
}

func TestCreate_Conflict(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "anna")

	res, err := f.svc.Create(ctx, user.ID, dto.CreateBakerRequest{Country: "Italy", Flag: "IT"})
	require.NoError(t, err)
	assert.Equal(t, "anna", res.Username)
	assert.Equal(t, "Italy", res.Country)

	_, err = f.svc.Create(ctx, user.ID, dto.CreateBakerRequest{})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGetDisplayInfo(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	withImage := testutil.CreateBaker(t, f.db, "anna", "Anna Rossi", "https://img.test/anna.png")
	info, err := f.svc.GetDisplayInfo(ctx, withImage.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna Rossi", info.Name)
	require.NotNil(t, info.ProfileImageURL)
	assert.Equal(t, "https://img.test/anna.png", *info.ProfileImageURL)

	plain := testutil.CreateBaker(t, f.db, "bob", "", "")
	info, err = f.svc.GetDisplayInfo(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", info.Name)
	assert.Nil(t, info.ProfileImageURL)

	_, err = f.svc.GetDisplayInfo(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	user := testutil.CreateBaker(t, f.db, "anna", "Anna", "")

	country := "France"
	res, err := f.svc.Update(ctx, user.ID, dto.UpdateBakerRequest{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "France", res.Country)

	stored, err := f.svc.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "France", stored.Country)
}

func TestUpdateProfileImage_ReplacesOld(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	user := testutil.CreateBaker(t, f.db, "anna", "Anna", "https://img.test/old.png")

	res, err := f.svc.UpdateProfileImage(ctx, user.ID, dto.ImageFile{Reader: strings.NewReader("png"), FileName: "me.png"})
	require.NoError(t, err)
	require.NotNil(t, res.ProfileImage)
	assert.Contains(t, *res.ProfileImage, "me.png")
	assert.Equal(t, []string{"https://img.test/old.png"}, f.store.Deleted)

	_, err = f.svc.UpdateProfileImage(ctx, user.ID, dto.ImageFile{Reader: strings.NewReader("x"), FileName: "me.txt"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	user := testutil.CreateBaker(t, f.db, "anna", "Anna", "https://img.test/anna.png")

	require.NoError(t, f.svc.Delete(ctx, user.ID))
	assert.Equal(t, []string{"https://img.test/anna.png"}, f.store.Deleted)

	assert.ErrorIs(t, f.svc.Delete(ctx, user.ID), apperror.ErrNotFound)
}

func TestRefreshRankings(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateBaker(t, db, "a", "A", "")
	b := testutil.CreateBaker(t, db, "b", "B", "")
	c := testutil.CreateBaker(t, db, "c", "C", "")
	require.NoError(t, db.Model(&entity.Baker{}).Where("user_id = ?", c.ID).
		Updates(map[string]any{"is_top10_sales": true, "is_top10_followers": true}).Error)

	svc := NewBakerService(repository.NewBakerRepository(db), testutil.NewMemoryStorage(), "test",
		staticRanking{a.ID}, staticRanking{a.ID, b.ID})
	require.NoError(t, svc.RefreshRankings(context.Background()))

	flags := func(id uuid.UUID) (bool, bool) {
		var baker entity.Baker
		require.NoError(t, db.Where("user_id = ?", id).First(&baker).Error)
		return baker.IsTop10Sales, baker.IsTop10Followers
	}

	sales, followers := flags(a.ID)
	assert.True(t, sales)
	assert.True(t, followers)

	sales, followers = flags(b.ID)
	assert.True(t, sales)
	assert.False(t, followers)

	sales, followers = flags(c.ID)
	assert.False(t, sales)
	assert.False(t, followers)
}

func TestList(t *testing.T) {
	f := newFixture(t, nil, nil)
	testutil.CreateBaker(t, f.db, "a", "A", "")
	testutil.CreateBaker(t, f.db, "b", "B", "")

	res, err := f.svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Data, 1)
}
