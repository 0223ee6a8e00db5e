package handler

import (
	"net/http"

	"github.com/blues/aidlink/internal/logic"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	api *logic.Facade
}

func NewAuthHandler(api *logic.Facade) *AuthHandler {
	return &AuthHandler{api: api}
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.api.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errorFromLogic(c, err, "Login failed. Please try again.")
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

// Signup 捐赠者注册
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.api.SignupDonor(c.Request.Context(), logic.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		errorFromLogic(c, err, "Registration failed. Please try again.")
		return
	}

	SuccessResponse(c, http.StatusCreated, "Registration successful", nil)
}
