package purchase

import (
	"context"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/purchase/dto"
	"anoa.com/recipemarket/internal/modules/purchase/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const rateLimitAction = "purchase"

type PurchaseService interface {
	// BuyRecipes records a ledger row per paid recipe. Each id gets one
	// result, in request order; duplicates in the request are processed once.
	BuyRecipes(ctx context.Context, buyerID uuid.UUID, recipeIDs []uuid.UUID) (*dto.BuyRecipesResponse, error)
	ListMyPurchases(ctx context.Context, buyerID uuid.UUID) ([]dto.PurchaseResponse, error)
	HasPurchased(ctx context.Context, buyerID, recipeID uuid.UUID) (bool, error)
}

type purchaseService struct {
	repo        repository.PurchaseRepository
	redisClient *redis.Client
	rateLimit   time.Duration
}

func NewPurchaseService(repo repository.PurchaseRepository, redisClient *redis.Client, rateLimit time.Duration) PurchaseService {
	return &purchaseService{
		repo:        repo,
		redisClient: redisClient,
		rateLimit:   rateLimit,
	}
}

func (s *purchaseService) BuyRecipes(ctx context.Context, buyerID uuid.UUID, recipeIDs []uuid.UUID) (*dto.BuyRecipesResponse, error) {
	if buyerID == uuid.Nil {
		return nil, apperror.Unauthorized("authorization required")
	}

	ids := dedupe(recipeIDs)
	if len(ids) == 0 {
		return nil, apperror.Validation("recipe_ids must contain at least one valid id")
	}

	if err := ratelimit.Enforce(ctx, s.redisClient, buyerID, rateLimitAction, s.rateLimit); err != nil {
		return nil, err
	}

	recipes, err := s.repo.FindRecipes(ctx, ids)
	if err != nil {
		s.clearRateLimit(ctx, buyerID)
		return nil, err
	}
	byID := make(map[uuid.UUID]entity.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	results := make([]dto.PurchaseResult, len(ids))
	pending := make([]entity.Purchase, 0, len(ids))
	pendingIdx := make([]int, 0, len(ids))

	for i, id := range ids {
		results[i].RecipeID = id

		recipe, ok := byID[id]
		switch {
		case !ok:
			results[i].Status = dto.StatusRecipeNotFound
		case recipe.IsFree():
			results[i].Status = dto.StatusRecipeFree
		default:
			price := 0.0
			if recipe.Price != nil {
				price = *recipe.Price
			}
			pending = append(pending, entity.Purchase{
				RecipeID: id,
				BuyerID:  buyerID,
				SellerID: recipe.UserID,
				Price:    price,
			})
			pendingIdx = append(pendingIdx, i)
		}
	}

	inserted, err := s.repo.Record(ctx, pending)
	if err != nil {
		s.clearRateLimit(ctx, buyerID)
		return nil, err
	}

	for j, i := range pendingIdx {
		if inserted[j] {
			results[i].Status = dto.StatusSuccess
		} else {
			results[i].Status = dto.StatusAlreadyPurchased
		}
	}

	return &dto.BuyRecipesResponse{
		Message:          "processed recipes",
		ProcessedRecipes: results,
	}, nil
}

func (s *purchaseService) ListMyPurchases(ctx context.Context, buyerID uuid.UUID) ([]dto.PurchaseResponse, error) {
	purchases, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		item := dto.PurchaseResponse{
			ID:          p.ID,
			RecipeID:    p.RecipeID,
			SellerID:    p.SellerID,
			Price:       p.Price,
			PurchasedAt: p.PurchasedAt,
		}
		if p.Recipe != nil {
			item.Title = p.Recipe.Title
			item.MainImage = p.Recipe.MainImage
			item.RecipeType = p.Recipe.RecipeType
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *purchaseService) HasPurchased(ctx context.Context, buyerID, recipeID uuid.UUID) (bool, error) {
	if buyerID == uuid.Nil || recipeID == uuid.Nil {
		return false, apperror.Validation("buyer_id and recipe_id are required")
	}
	return s.repo.Exists(ctx, buyerID, recipeID)
}

func (s *purchaseService) clearRateLimit(ctx context.Context, buyerID uuid.UUID) {
	if err := ratelimit.Clear(ctx, s.redisClient, buyerID, rateLimitAction); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to clear purchase rate limit")
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
