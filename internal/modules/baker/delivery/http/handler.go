package handler

import (
	"net/http"
	"strconv"

	"anoa.com/recipemarket/internal/modules/baker/dto"
	baker "anoa.com/recipemarket/internal/modules/baker/service"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/response"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/gin-gonic/gin"
)

type BakerHandler struct {
	service baker.BakerService
}

func NewBakerHandler(service baker.BakerService) *BakerHandler {
	return &BakerHandler{service: service}
}

func (h *BakerHandler) Create(c *gin.Context) {
	var req dto.CreateBakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *BakerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BakerHandler) Get(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetDisplayInfo returns the name and image other users see for a baker.
func (h *BakerHandler) GetDisplayInfo(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	info, err := h.service.GetDisplayInfo(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *BakerHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BakerHandler) Update(c *gin.Context) {
	var req dto.UpdateBakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BakerHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "baker profile deleted successfully"})
}

func (h *BakerHandler) UpdateProfileImage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fh, err := c.FormFile("profile_image")
	if err != nil {
		response.ResponseError(c, apperror.Validation("profile_image is required"))
		return
	}
	if err := storage.ValidateImage(fh); err != nil {
		response.ResponseError(c, apperror.Validation(err.Error()))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.ResponseError(c, apperror.Validation("failed to read profile_image"))
		return
	}
	defer f.Close()

	res, err := h.service.UpdateProfileImage(c.Request.Context(), userID, dto.ImageFile{Reader: f, FileName: fh.Filename})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
