package handler

import (
	"net/http"

	"anoa.com/recipemarket/internal/modules/purchase/dto"
	purchase "anoa.com/recipemarket/internal/modules/purchase/service"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	service purchase.PurchaseService
}

func NewPurchaseHandler(service purchase.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

func (h *PurchaseHandler) BuyRecipes(c *gin.Context) {
	var req dto.BuyRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.BuyRecipes(c.Request.Context(), userID, req.RecipeIDs)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PurchaseHandler) ListMyPurchases(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	purchases, err := h.service.ListMyPurchases(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": purchases})
}

func (h *PurchaseHandler) HasPurchased(c *gin.Context) {
	recipeID, err := response.ParseUUIDParam(c, "recipe_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ok, err := h.service.HasPurchased(c.Request.Context(), userID, recipeID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HasPurchasedResponse{HasPurchased: ok})
}
