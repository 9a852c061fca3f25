package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sira/internal/middleware"
	"sira/internal/models"
	"sira/internal/repositories"
	"sira/internal/services"
	"sira/internal/utils"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 30 * 24 * time.Hour
)

type AuthHandler struct {
	authService  services.AuthService
	verification *services.VerificationService
	limiter      *repositories.ResendLimiter
}

func NewAuthHandler(authService services.AuthService, verification *services.VerificationService, limiter *repositories.ResendLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, verification: verification, limiter: limiter}
}

type sendCodeRequest struct {
	Phone    string `json:"phone" binding:"required"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// @Summary      Send a verification code
// @Description  Sends a one-time SMS code. Include full_name to register a new account.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      sendCodeRequest  true  "Phone and optional registration details"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /auth/send-code [post]
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone := services.FormatPhone(req.Phone)
	if !services.IsValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		return
	}
	if !h.limiter.Allow(c.Request.Context(), phone) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
		return
	}

	var err error
	if strings.TrimSpace(req.FullName) != "" {
		err = h.authService.StartRegistration(c.Request.Context(), req.Phone, req.FullName, req.Username)
	} else {
		_, err = h.verification.SendCode(c.Request.Context(), req.Phone)
	}
	if err != nil {
		if errors.Is(err, services.ErrPhoneInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		log.Printf("[auth][send-code] failed: phone=%s err=%v", phone, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code sent", "phone": phone})
}

type verifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
	Mode  string `json:"mode"`
}

// @Summary      Verify a code and sign in
// @Description  Checks the SMS code and returns the session with access and refresh tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      verifyRequest  true  "Phone, code and optional mode"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.CompleteVerification(c.Request.Context(), req.Phone, req.Code, req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPhoneInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		case errors.Is(err, services.ErrNoPendingRegistration):
			c.JSON(http.StatusNotFound, gin.H{"error": "No account for this phone; register first"})
		case errors.Is(err, services.ErrModeNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"error": "Mode not available for this account"})
		default:
			log.Printf("[auth][verify] failed: err=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	h.respondWithTokens(c, user)
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, user *models.SessionUser) {
	accessToken, err := signAccessToken(user)
	if err != nil {
		log.Printf("[auth][tokens] sign access token failed: user=%s err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}
	rtExp := time.Now().Add(refreshTTL)
	if err := h.authService.UpdateRefresh(c.Request.Context(), user.ID, rt, rtExp); err != nil {
		log.Printf("[auth][tokens] store refresh token failed: user=%s err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"tokens": gin.H{
			"access_token":  accessToken,
			"refresh_token": rt,
		},
	})
}

func signAccessToken(user *models.SessionUser) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		Mode:   string(user.CurrentMode),
		Admin:  user.Profile != nil && user.Profile.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTKey)
}

// @Summary      Rotate tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
		Mode         string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	old := strings.TrimSpace(req.RefreshToken)

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate refresh token"})
		return
	}
	newExp := time.Now().Add(refreshTTL)
	profile, err := h.authService.RotateRefresh(c.Request.Context(), old, newRT, newExp)
	if err != nil || profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	user, err := h.authService.SwitchMode(c.Request.Context(), profile.ID, req.Mode)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Mode not available for this account"})
		return
	}
	accessToken, err := signAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": newRT,
	})
}

// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _, _ := currentUser(c)
	if err := h.authService.ClearRefresh(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary      Current session
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, mode := currentUser(c)
	user, err := h.authService.SwitchMode(c.Request.Context(), userID, mode)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type switchModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// @Summary      Switch between customer and tasker mode
// @Description  Reissues the access token under the requested lens. Nothing is stored.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /auth/switch-mode [post]
func (h *AuthHandler) SwitchMode(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req switchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.SwitchMode(c.Request.Context(), userID, req.Mode)
	if err != nil {
		if errors.Is(err, services.ErrModeNotAllowed) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Mode not available for this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Switch failed"})
		return
	}
	accessToken, err := signAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": accessToken,
	})
}

type adminLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Admin console login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.authService.AdminLogin(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone or password"})
		return
	}
	h.respondWithTokens(c, user)
}
