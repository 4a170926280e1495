package category

import (
	"context"
	"testing"

	"anoa.com/recipemarket/internal/modules/category/dto"
	"anoa.com/recipemarket/internal/modules/category/repository"
	"anoa.com/recipemarket/internal/testutil"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) CategoryService {
	return NewCategoryService(repository.NewCategoryRepository(testutil.NewDB(t)))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sourdough-breads", Slugify("  Sourdough Breads "))
	assert.Equal(t, "cakes-pies", Slugify("Cakes & Pies!"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bread"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "bread"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateCategory_Subcategory(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	parent, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bread"})
	require.NoError(t, err)

	child, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Rye", ParentID: &parent.ID})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *child.ParentID)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Orphan", ParentID: ptr(uuid.New())})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	subs, err := svc.GetAllCategories(ctx, commonDto.CategoryFilter{ParentID: parent.ID.String()})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "rye", subs[0].Slug)
}

func TestGetAllCategories_Search(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"Cakes", "Cookies", "Bread"} {
		_, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: name})
		require.NoError(t, err)
	}

	res, err := svc.GetAllCategories(ctx, commonDto.CategoryFilter{Search: "c"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Cakes", res[0].Name)

	all, err := svc.GetAllCategories(ctx, commonDto.CategoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateCategory(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	bread, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bread", Description: "loaves"})
	require.NoError(t, err)
	cakes, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Cakes"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{Name: ptr("Flat Breads")})
	require.NoError(t, err)
	assert.Equal(t, "Flat Breads", updated.Name)
	assert.Equal(t, "flat-breads", updated.Slug)
	assert.Equal(t, "loaves", updated.Description, "absent fields are kept")

	updated, err = svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{ParentID: &cakes.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, cakes.ID, *updated.ParentID)

	stored, err := svc.GetCategory(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, "flat-breads", stored.Slug)
	assert.Equal(t, cakes.ID, *stored.ParentID)
}

func TestUpdateCategory_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	bread, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bread"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Cakes"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{Name: ptr("cakes")})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{Name: ptr("??")})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{ParentID: &bread.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateCategory(ctx, bread.ID, dto.UpdateCategoryRequest{ParentID: ptr(uuid.New())})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.UpdateCategory(ctx, uuid.New(), dto.UpdateCategoryRequest{Name: ptr("Rye")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Bread"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), apperror.ErrNotFound)
}

func ptr[T any](v T) *T {
	return &v
}
