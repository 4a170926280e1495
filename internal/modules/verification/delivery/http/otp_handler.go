package handler

import (
	"net/http"

	"anoa.com/recipemarket/internal/modules/verification/dto"
	verification "anoa.com/recipemarket/internal/modules/verification/service"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	service verification.OTPService
}

func NewOTPHandler(service verification.OTPService) *OTPHandler {
	return &OTPHandler{service: service}
}

func (h *OTPHandler) Generate(c *gin.Context) {
	var req dto.GenerateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Generate(c.Request.Context(), req.Email); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "otp sent successfully"})
}

func (h *OTPHandler) Verify(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "otp verified, email is now verified"})
}

func (h *OTPHandler) CheckVerification(c *gin.Context) {
	var query dto.CheckVerificationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.CheckVerification(c.Request.Context(), query.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
