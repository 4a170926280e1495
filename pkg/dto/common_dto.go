package dto

import "github.com/google/uuid"

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

type CategoryFilter struct {
	Search string `form:"search"`
	// ParentID restricts the list to subcategories of one category.
	ParentID string `form:"parent_id" binding:"omitempty,uuid"`
}

type RecipeFilter struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	RecipeType string `form:"recipe_type" binding:"omitempty,oneof=free paid"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=newest rating price"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Normalize fills zero paging fields with defaults.
func (f *RecipeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
}

func (f RecipeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  pages,
		TotalItems:  total,
		Limit:       limit,
	}
}

type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
