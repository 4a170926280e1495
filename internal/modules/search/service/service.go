package search

import (
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/pkg/logger"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	recipesIndex  = "recipes"
	signerKeyName = "RecipeTenantTokenSigner"
)

// SearchService keeps the recipes index in sync and issues tenant tokens so
// clients can query meilisearch directly.
type SearchService interface {
	IndexRecipe(recipe *entity.Recipe) error
	DeleteRecipe(id uuid.UUID) error
	GenerateSearchToken(userRole string) (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
	tokenTTL      time.Duration
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		tokenTTL:  24 * time.Hour,
	}
	s.initIndex()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	log := logger.WithComponent("search")

	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		log.Warn().Err(err).Msg("failed to list meilisearch keys")
		return
	}

	for _, key := range resp.Results {
		if key.Name == signerKeyName {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Signs tenant tokens for recipe search",
		Name:        signerKeyName,
		Actions:     []string{"search"},
		Indexes:     []string{recipesIndex},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to create meilisearch signing key")
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Info().Msg("created meilisearch signing key")
}

func (s *meiliSearchService) initIndex() {
	log := logger.WithComponent("search")

	filterable := []any{"category_id", "recipe_type", "user_id"}
	if _, err := s.client.Index(recipesIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Warn().Err(err).Msg("failed to update recipes filterable attributes")
	}

	sortable := []string{"created_at", "price", "average_rating"}
	if _, err := s.client.Index(recipesIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Warn().Err(err).Msg("failed to update recipes sortable attributes")
	}
}

type recipeDoc struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Ingredients   string      `json:"ingredients"`
	UserID        string      `json:"user_id"`
	CategoryID    string      `json:"category_id"`
	RecipeType    string      `json:"recipe_type"`
	Price         float64     `json:"price"`
	MainImage     string      `json:"main_image"`
	AverageRating float64     `json:"average_rating"`
	CreatedAt     int64       `json:"created_at"`
	Owner         ownerSubset `json:"owner"`
}

type ownerSubset struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func (s *meiliSearchService) toDocument(recipe *entity.Recipe) recipeDoc {
	doc := recipeDoc{
		ID:            recipe.ID.String(),
		Title:         recipe.Title,
		Description:   cleanText(s.sanitizer, recipe.Description),
		Ingredients:   cleanText(s.sanitizer, recipe.Ingredients),
		UserID:        recipe.UserID.String(),
		RecipeType:    recipe.RecipeType,
		AverageRating: recipe.AverageRating,
		CreatedAt:     recipe.CreatedAt.Unix(),
	}
	if recipe.CategoryID != nil {
		doc.CategoryID = recipe.CategoryID.String()
	}
	if recipe.Price != nil {
		doc.Price = *recipe.Price
	}
	if recipe.MainImage != nil {
		doc.MainImage = *recipe.MainImage
	}
	if recipe.Owner != nil {
		doc.Owner = ownerSubset{Username: recipe.Owner.Username, FullName: recipe.Owner.FullName}
	}
	return doc
}

// cleanText strips markup so html in descriptions does not leak into
// search snippets.
func cleanText(policy *bluemonday.Policy, content string) string {
	for _, tag := range []string{"</p>", "<br>", "<br/>", "</div>", "</li>"} {
		content = strings.ReplaceAll(content, tag, " ")
	}
	text := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func (s *meiliSearchService) IndexRecipe(recipe *entity.Recipe) error {
	doc := s.toDocument(recipe)

	task, err := s.client.Index(recipesIndex).AddDocuments([]recipeDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}

	logger.Debug().
		Str("recipe_id", doc.ID).
		Int64("task_uid", task.TaskUID).
		Msg("recipe queued for indexing")
	return nil
}

func (s *meiliSearchService) DeleteRecipe(id uuid.UUID) error {
	_, err := s.client.Index(recipesIndex).DeleteDocument(id.String())
	return err
}

// GenerateSearchToken restricts non-admin tokens to the recipes index.
func (s *meiliSearchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		recipesIndex: map[string]any{},
	}
	if userRole == entity.RoleAdmin {
		searchRules = map[string]any{"*": map[string]any{}}
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	})
}

func strPtr(s string) *string {
	return &s
}
