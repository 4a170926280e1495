package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"anoa.com/recipemarket/internal/modules/review/dto"
	review "anoa.com/recipemarket/internal/modules/review/service"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/response"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	images, closeFiles, err := readImages(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFiles()

	res, err := h.service.Create(c.Request.Context(), userID, req, images)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReviewHandler) GetRecipeReviews(c *gin.Context) {
	recipeID, err := response.ParseUUIDParam(c, "recipe_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reviews, err := h.service.ListByRecipe(c.Request.Context(), recipeID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func readImages(c *gin.Context) ([]dto.ImageUpload, func(), error) {
	var opened []io.Closer
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, closeAll, nil
		}
		return nil, closeAll, apperror.Validation("invalid multipart form")
	}

	files := form.File["images"]
	if len(files) > dto.MaxImages {
		return nil, closeAll, apperror.Validation(fmt.Sprintf("at most %d images are allowed", dto.MaxImages))
	}

	images := make([]dto.ImageUpload, 0, len(files))
	for _, fh := range files {
		if err := storage.ValidateImage(fh); err != nil {
			closeAll()
			return nil, func() {}, apperror.Validation(err.Error())
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperror.Validation("failed to read " + fh.Filename)
		}
		opened = append(opened, f)
		images = append(images, dto.ImageUpload{Reader: f, FileName: fh.Filename})
	}

	return images, closeAll, nil
}
