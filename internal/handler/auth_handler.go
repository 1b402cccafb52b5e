package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storelane/catalog_api/internal/service"
	"github.com/storelane/catalog_api/internal/utils"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrValidation) || errors.Is(err, utils.ErrUserExists):
			utils.Error(c, 400, err.Error())
		default:
			utils.Error(c, 500, "Internal server error")
		}
		return
	}

	c.JSON(201, user)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.Error(c, 401, err.Error())
			return
		}
		utils.Error(c, 500, "Internal server error")
		return
	}

	c.JSON(200, gin.H{
		"token": token,
		"user":  user,
	})
}
