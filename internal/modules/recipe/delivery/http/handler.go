package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"anoa.com/recipemarket/internal/modules/recipe/dto"
	recipe "anoa.com/recipemarket/internal/modules/recipe/service"
	"anoa.com/recipemarket/pkg/apperror"
	commonDto "anoa.com/recipemarket/pkg/dto"
	"anoa.com/recipemarket/pkg/response"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	service recipe.RecipeService
}

func NewRecipeHandler(service recipe.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req dto.CreateRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	files, closeFiles, err := readFiles(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFiles()

	res, err := h.service.Create(c.Request.Context(), userID, req, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RecipeHandler) GetAllRecipes(c *gin.Context) {
	var filter commonDto.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := response.ParseUUIDParam(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RecipeHandler) GetBakerRecipes(c *gin.Context) {
	bakerID, err := response.ParseUUIDParam(c, "baker_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.service.ListByOwner(c.Request.Context(), bakerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := response.ParseUUIDParam(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	files, closeFiles, err := readFiles(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeFiles()

	res, err := h.service.Update(c.Request.Context(), userID, id, req, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := response.ParseUUIDParam(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully"})
}

// readFiles opens main_image and additional_images. The returned func
// closes everything that was opened.
func readFiles(c *gin.Context) (dto.RecipeFiles, func(), error) {
	var (
		files  dto.RecipeFiles
		opened []io.Closer
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return files, closeAll, nil
		}
		return files, closeAll, apperror.Validation("invalid multipart form")
	}

	open := func(fh *multipart.FileHeader) (*dto.ImageUpload, error) {
		if err := storage.ValidateImage(fh); err != nil {
			return nil, apperror.Validation(err.Error())
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperror.Validation("failed to read " + fh.Filename)
		}
		opened = append(opened, f)
		return &dto.ImageUpload{Reader: f, FileName: fh.Filename}, nil
	}

	if mains := form.File["main_image"]; len(mains) > 0 {
		img, err := open(mains[0])
		if err != nil {
			closeAll()
			return files, func() {}, err
		}
		files.Main = img
	}

	additional := form.File["additional_images"]
	if len(additional) > dto.MaxAdditionalImages {
		closeAll()
		return files, func() {}, apperror.Validation(fmt.Sprintf("at most %d additional images are allowed", dto.MaxAdditionalImages))
	}
	for _, fh := range additional {
		img, err := open(fh)
		if err != nil {
			closeAll()
			return files, func() {}, err
		}
		files.Additional = append(files.Additional, *img)
	}

	return files, closeAll, nil
}
