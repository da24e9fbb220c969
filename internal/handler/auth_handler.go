package handler

import (
	"errors"
	"net/http"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/middleware"
	"github.com/caseflow/caseflow-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new client or advocate account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration data"
// @Success 201 {object} common.APIResponse{data=domain.UserResponse}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.Register(&req)
	if errors.Is(err, common.ErrUserAlreadyExists) {
		common.ErrorResponse(c, http.StatusConflict, "Username or email already in use", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: user})
}

// Login handles POST /api/v1/auth/login
// Refresh token goes into an httpOnly cookie, access token into the body.
// @Summary Authenticate and receive tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	response, err := h.service.Login(req.Username, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", err)
		return
	}
	if errors.Is(err, common.ErrAccountPending) {
		common.ErrorResponse(c, http.StatusForbidden, "Account is pending approval", err)
		return
	}
	if errors.Is(err, common.ErrAccountSuspended) {
		common.ErrorResponse(c, http.StatusForbidden, "Account is suspended", err)
		return
	}
	if errors.Is(err, common.ErrAccountInactive) {
		common.ErrorResponse(c, http.StatusForbidden, "Account is inactive", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token": response.AccessToken,
			"user":         response.User,
		},
	})
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Rotate the token pair using the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Refresh token not found in cookie", nil)
		return
	}

	tokens, err := h.service.RefreshToken(refreshToken)
	if errors.Is(err, common.ErrInvalidToken) {
		h.clearRefreshTokenCookie(c)
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}
	if errors.Is(err, common.ErrAccountSuspended) {
		h.clearRefreshTokenCookie(c)
		common.ErrorResponse(c, http.StatusForbidden, "Account is no longer active", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Token refresh failed", err)
		return
	}

	h.setRefreshTokenCookie(c, tokens.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token": tokens.AccessToken,
		},
	})
}

// GetProfile handles GET /api/v1/auth/profile
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.UserResponse}
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.service.GetProfile(userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: user})
}

// UpdateProfile handles PUT /api/v1/auth/profile
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileRequest true "Editable profile fields"
// @Success 200 {object} common.APIResponse{data=domain.UserResponse}
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			common.ErrorResponse(c, http.StatusConflict, "Email already in use", err)
			return
		}
		if errors.Is(err, common.ErrUserNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Profile update failed", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: user})
}

// ChangePassword handles POST /api/v1/auth/password
// @Summary Change the authenticated user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} common.APIResponse
// @Router /auth/password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.ChangePassword(userID, &req); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Current password is incorrect", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Password change failed", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"success": true}})
}

// Logout handles POST /api/v1/auth/logout
// @Summary Clear the refresh token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearRefreshTokenCookie(c)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{"message": "Logged out successfully"},
	})
}

// setRefreshTokenCookie stores the refresh token as an httpOnly cookie
// so it cannot be read from JavaScript.
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	maxAge := 7 * 24 * 60 * 60
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("refresh_token", token, maxAge, "/", "", true, true)
}

// clearRefreshTokenCookie removes the refresh token cookie
func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("refresh_token", "", -1, "/", "", true, true)
}
