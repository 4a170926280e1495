package handler

import (
	"net/http"

	"anoa.com/recipemarket/internal/modules/seen/dto"
	seen "anoa.com/recipemarket/internal/modules/seen/service"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
)

type SeenHandler struct {
	service seen.SeenService
}

func NewSeenHandler(service seen.SeenService) *SeenHandler {
	return &SeenHandler{service: service}
}

func (h *SeenHandler) MarkSeen(c *gin.Context) {
	var req dto.MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ids := req.IDs()
	if len(ids) == 1 {
		err = h.service.MarkSeen(c.Request.Context(), userID, ids[0])
	} else {
		err = h.service.MarkSeenBatch(c.Request.Context(), userID, ids)
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe marked as seen"})
}

func (h *SeenHandler) IsSeen(c *gin.Context) {
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

	seen, err := h.service.IsSeen(c.Request.Context(), userID, recipeID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IsSeenResponse{RecipeID: recipeID, Seen: seen})
}
