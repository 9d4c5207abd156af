package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/middleware"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a user and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Check verifies the authenticated account is still active.
func (h *AuthHandler) Check(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.auth.LoginCheck(c.Request.Context(), claims.Username); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": true}, nil)
}
