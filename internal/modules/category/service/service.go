package category

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/category/dto"
	"anoa.com/recipemarket/internal/modules/category/repository"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter commonDto.CategoryFilter) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := Slugify(name)
	if slug == "" {
		return nil, apperror.Validation("name must contain letters or digits")
	}

	if err := s.checkParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("category " + name + " already exists")
		}
		return nil, err
	}

	res := toResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter commonDto.CategoryFilter) ([]dto.CategoryResponse, error) {
	var parentID *uuid.UUID
	if filter.ParentID != "" {
		id, err := uuid.Parse(filter.ParentID)
		if err != nil {
			return nil, apperror.Validation("parent_id must be a valid uuid")
		}
		parentID = &id
	}

	categories, err := s.repo.FindAll(ctx, filter.Search, parentID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toResponse(&categories[i]))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toResponse(category)
	return &res, nil
}

// UpdateCategory renames, re-describes or re-parents a category. A new name
// yields a new slug.
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		slug := Slugify(name)
		if slug == "" {
			return nil, apperror.Validation("name must contain letters or digits")
		}
		category.Name, category.Slug = name, slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, apperror.Validation("a category cannot be its own parent")
		}
		if err := s.checkParent(ctx, req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("category " + category.Name + " already exists")
		}
		return nil, err
	}

	res := toResponse(category)
	return &res, nil
}

func (s *categoryService) checkParent(ctx context.Context, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.repo.FindByID(ctx, *parentID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("parent category not found")
		}
		return err
	}
	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.NotFound("category not found")
	}
	return nil
}

func toResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
	}
}
