package handler

import (
	"net/http"

	"anoa.com/recipemarket/internal/modules/follower/dto"
	follower "anoa.com/recipemarket/internal/modules/follower/service"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
)

type FollowerHandler struct {
	service follower.FollowerService
}

func NewFollowerHandler(service follower.FollowerService) *FollowerHandler {
	return &FollowerHandler{service: service}
}

func (h *FollowerHandler) Follow(c *gin.Context) {
	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Follow(c.Request.Context(), userID, req.BakerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": res.ID, "message": "followed successfully"})
}

func (h *FollowerHandler) Unfollow(c *gin.Context) {
	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), userID, req.BakerID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed successfully"})
}

func (h *FollowerHandler) IsFollowing(c *gin.Context) {
	bakerID, err := response.ParseUUIDParam(c, "baker_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	followerID, err := response.ParseUUIDParam(c, "follower_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	following, err := h.service.IsFollowing(c.Request.Context(), followerID, bakerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IsFollowingResponse{IsFollowing: following})
}

func (h *FollowerHandler) ListFollowers(c *gin.Context) {
	bakerID, err := response.ParseUUIDParam(c, "baker_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	followers, err := h.service.ListFollowers(c.Request.Context(), bakerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": followers})
}

func (h *FollowerHandler) CountFollowers(c *gin.Context) {
	bakerID, err := response.ParseUUIDParam(c, "baker_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.CountFollowers(c.Request.Context(), bakerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowerCountResponse{BakerID: bakerID, FollowerCount: count})
}
