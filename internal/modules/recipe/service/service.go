package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/recipe/dto"
	"anoa.com/recipemarket/internal/modules/recipe/repository"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/google/uuid"
)

type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}

type Indexer interface {
	IndexRecipe(recipe *entity.Recipe) error
	DeleteRecipe(id uuid.UUID) error
}

type Publisher interface {
	PublishNewRecipe(ctx context.Context, recipe *entity.Recipe) error
}

type RecipeService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateRecipeRequest, files dto.RecipeFiles) (*dto.RecipeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error)
	List(ctx context.Context, filter commonDto.RecipeFilter) (*dto.RecipeListResponse, error)
	// ListByOwner returns the publication log of a baker, oldest first.
	ListByOwner(ctx context.Context, bakerID uuid.UUID) ([]dto.PublicationEntry, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateRecipeRequest, files dto.RecipeFiles) (*dto.RecipeResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type recipeService struct {
	repo         repository.RecipeRepository
	categories   CategoryFinder
	imageStorage storage.ImageStorage
	indexer      Indexer
	publisher    Publisher
	folder       string
}

// NewRecipeService wires the recipe catalogue. indexer and publisher may be
// nil when meilisearch or redis are not configured.
func NewRecipeService(
	repo repository.RecipeRepository,
	categories CategoryFinder,
	imageStorage storage.ImageStorage,
	indexer Indexer,
	publisher Publisher,
	folder string,
) RecipeService {
	return &recipeService{
		repo:         repo,
		categories:   categories,
		imageStorage: imageStorage,
		indexer:      indexer,
		publisher:    publisher,
		folder:       folder + "/recipes",
	}
}

func (s *recipeService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateRecipeRequest, files dto.RecipeFiles) (*dto.RecipeResponse, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.Validation("user_id is required")
	}
	if len(files.Additional) > dto.MaxAdditionalImages {
		return nil, apperror.Validation(fmt.Sprintf("at most %d additional images are allowed", dto.MaxAdditionalImages))
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID, "category_id")
	if err != nil {
		return nil, err
	}
	subcategoryID, err := s.resolveCategory(ctx, req.SubcategoryID, "subcategory_id")
	if err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		UserID:        ownerID,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Ingredients:   req.Ingredients,
		Price:         normalizePrice(req.Price),
	}
	recipe.RecipeType = entity.RecipeTypeFor(recipe.Price)

	uploaded := make([]string, 0, 1+len(files.Additional))
	if files.Main != nil {
		url, err := s.upload(ctx, *files.Main)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, url)
		recipe.MainImage = &url
	}
	for _, img := range files.Additional {
		url, err := s.upload(ctx, img)
		if err != nil {
			s.cleanup(ctx, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, url)
		recipe.Images = append(recipe.Images, entity.RecipeImage{Image: url})
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		s.cleanup(ctx, uploaded...)
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}

	s.afterCreate(ctx, created)

	res := toResponse(created)
	return &res, nil
}

// afterCreate runs the side effects of a publication. Their failures are
// logged only; the recipe is already committed.
func (s *recipeService) afterCreate(ctx context.Context, recipe *entity.Recipe) {
	log := logger.Ctx(ctx)

	if s.indexer != nil {
		if err := s.indexer.IndexRecipe(recipe); err != nil {
			log.Warn().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to index recipe")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishNewRecipe(ctx, recipe); err != nil {
			log.Warn().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to publish recipe event")
		}
	}
}

func (s *recipeService) GetByID(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toResponse(recipe)
	return &res, nil
}

func (s *recipeService) List(ctx context.Context, filter commonDto.RecipeFilter) (*dto.RecipeListResponse, error) {
	filter.Normalize()

	recipes, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		data = append(data, toResponse(&recipes[i]))
	}

	return &dto.RecipeListResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *recipeService) ListByOwner(ctx context.Context, bakerID uuid.UUID) ([]dto.PublicationEntry, error) {
	if bakerID == uuid.Nil {
		return nil, apperror.Validation("baker_id is required")
	}

	recipes, err := s.repo.ListByOwner(ctx, bakerID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.PublicationEntry, 0, len(recipes))
	for _, r := range recipes {
		entries = append(entries, dto.PublicationEntry{ID: r.ID, CreatedAt: r.CreatedAt})
	}
	return entries, nil
}

func (s *recipeService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateRecipeRequest, files dto.RecipeFiles) (*dto.RecipeResponse, error) {
	if len(files.Additional) > dto.MaxAdditionalImages {
		return nil, apperror.Validation(fmt.Sprintf("at most %d additional images are allowed", dto.MaxAdditionalImages))
	}

	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, apperror.Forbidden("only the owner can modify this recipe")
	}

	if req.CategoryID != nil {
		if recipe.CategoryID, err = s.resolveCategory(ctx, *req.CategoryID, "category_id"); err != nil {
			return nil, err
		}
	}
	if req.SubcategoryID != nil {
		if recipe.SubcategoryID, err = s.resolveCategory(ctx, *req.SubcategoryID, "subcategory_id"); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.Price != nil {
		recipe.Price = normalizePrice(req.Price)
		recipe.RecipeType = entity.RecipeTypeFor(recipe.Price)
	}

	var (
		uploaded []string
		obsolete []string
		images   []entity.RecipeImage
	)

	if files.Main != nil {
		url, err := s.upload(ctx, *files.Main)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, url)
		if recipe.MainImage != nil {
			obsolete = append(obsolete, *recipe.MainImage)
		}
		recipe.MainImage = &url
	}

	if len(files.Additional) > 0 {
		images = make([]entity.RecipeImage, 0, len(files.Additional))
		for _, img := range files.Additional {
			url, err := s.upload(ctx, img)
			if err != nil {
				s.cleanup(ctx, uploaded...)
				return nil, err
			}
			uploaded = append(uploaded, url)
			images = append(images, entity.RecipeImage{Image: url})
		}
		for _, old := range recipe.Images {
			obsolete = append(obsolete, old.Image)
		}
	}

	if err := s.repo.Update(ctx, recipe, images); err != nil {
		s.cleanup(ctx, uploaded...)
		return nil, err
	}
	s.cleanup(ctx, obsolete...)

	if s.indexer != nil {
		if err := s.indexer.IndexRecipe(recipe); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to reindex recipe")
		}
	}

	res := toResponse(recipe)
	return &res, nil
}

func (s *recipeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return apperror.Forbidden("only the owner can delete this recipe")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.NotFound("recipe not found")
	}

	images := make([]string, 0, 1+len(recipe.Images))
	if recipe.MainImage != nil {
		images = append(images, *recipe.MainImage)
	}
	for _, img := range recipe.Images {
		images = append(images, img.Image)
	}
	s.cleanup(ctx, images...)

	if s.indexer != nil {
		if err := s.indexer.DeleteRecipe(id); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("recipe_id", id.String()).Msg("failed to remove recipe from index")
		}
	}
	return nil
}

func (s *recipeService) resolveCategory(ctx context.Context, raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation(field + " must be a valid uuid")
	}
	if s.categories == nil {
		return &id, nil
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound(strings.TrimSuffix(field, "_id") + " not found")
		}
		return nil, err
	}
	return &id, nil
}

func (s *recipeService) upload(ctx context.Context, img dto.ImageUpload) (string, error) {
	if !storage.IsImageFile(img.FileName) {
		return "", apperror.Validation(img.FileName + " is not a supported image type")
	}
	url, err := s.imageStorage.UploadImage(ctx, img.Reader, s.folder, img.FileName)
	if err != nil {
		return "", apperror.Storage(err)
	}
	return url, nil
}

func (s *recipeService) cleanup(ctx context.Context, urls ...string) {
	if len(urls) == 0 {
		return
	}
	if err := storage.DeleteAll(ctx, s.imageStorage, urls...); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to delete recipe images")
	}
}

// normalizePrice treats a zero price as free.
func normalizePrice(price *float64) *float64 {
	if price == nil || *price <= 0 {
		return nil
	}
	v := *price
	return &v
}

func toResponse(r *entity.Recipe) dto.RecipeResponse {
	res := dto.RecipeResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		CategoryID:       r.CategoryID,
		SubcategoryID:    r.SubcategoryID,
		Title:            r.Title,
		Description:      r.Description,
		Ingredients:      r.Ingredients,
		Price:            r.Price,
		RecipeType:       r.RecipeType,
		MainImage:        r.MainImage,
		AdditionalImages: make([]string, 0, len(r.Images)),
		AverageRating:    r.AverageRating,
		RatingCount:      r.RatingCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	for _, img := range r.Images {
		res.AdditionalImages = append(res.AdditionalImages, img.Image)
	}
	if r.Owner != nil {
		res.Owner = &commonDto.AuthorResponse{
			ID:        r.Owner.ID,
			Username:  r.Owner.Username,
			FullName:  r.Owner.FullName,
			AvatarURL: r.Owner.AvatarURL,
		}
	}
	return res
}
