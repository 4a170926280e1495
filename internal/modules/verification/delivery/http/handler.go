package handler

import (
	"io"
	"net/http"

	"anoa.com/recipemarket/internal/modules/verification/dto"
	verification "anoa.com/recipemarket/internal/modules/verification/service"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/response"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	service verification.VerificationService
}

func NewVerificationHandler(service verification.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Submit expects a multipart form with the seller details and the id_card
// and selfie images.
func (h *VerificationHandler) Submit(c *gin.Context) {
	var req dto.SubmitVerificationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	idCard, closeIDCard, err := readDocument(c, "id_card")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeIDCard.Close()

	selfie, closeSelfie, err := readDocument(c, "selfie")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer closeSelfie.Close()

	res, err := h.service.Submit(c.Request.Context(), userID, req, idCard, selfie)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *VerificationHandler) GetMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetMine(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VerificationHandler) GetStatus(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetStatus(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VerificationHandler) List(c *gin.Context) {
	var query dto.ListVerificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), query.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *VerificationHandler) UpdateStatus(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.UpdateStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VerificationHandler) SetUserVerified(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SetUserVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.SetUserVerified(c.Request.Context(), userID, *req.IsVerified); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user verification updated"})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func readDocument(c *gin.Context, field string) (dto.DocumentUpload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.DocumentUpload{}, nopCloser{}, apperror.Validation(field + " is required")
	}
	if err := storage.ValidateImage(fh); err != nil {
		return dto.DocumentUpload{}, nopCloser{}, apperror.Validation(err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return dto.DocumentUpload{}, nopCloser{}, apperror.Validation("failed to read " + fh.Filename)
	}
	return dto.DocumentUpload{Reader: f, FileName: fh.Filename}, f, nil
}
