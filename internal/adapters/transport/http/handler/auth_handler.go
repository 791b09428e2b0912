package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/dto"
	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/middleware"
	authsvc "github.com/veloxcart/ecommerce-api/internal/app/auth/service"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
)

type AuthHandler struct {
	svc authsvc.Service
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(svc authsvc.Service, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg, log: log}
}

// Register wires the auth routes onto the group. perIPLimit throttles the
// resend and dry-run endpoints per client address.
func (h *AuthHandler) Register(g *gin.RouterGroup, authRequired, perIPLimit gin.HandlerFunc) {
	g.POST("/register", h.register)
	g.POST("/token", h.login)
	g.POST("/token/refresh", h.refresh)
	g.POST("/logout", h.logout)

	g.GET("/verify-email", h.verifyEmail)
	g.POST("/verify-email", h.verifyEmail)
	g.POST("/resend-verification", perIPLimit, h.resendVerification)

	g.POST("/password-reset", h.requestPasswordReset)
	g.GET("/password-reset/confirm", perIPLimit, h.checkPasswordReset)
	g.POST("/password-reset/confirm", h.confirmPasswordReset)

	g.GET("/me", authRequired, h.me)
	g.PATCH("/me", authRequired, h.updateMe)
	g.POST("/change-password", authRequired, h.changePassword)
}

func (h *AuthHandler) issueTokens(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken,
		int(pair.AccessTTL.Seconds()), "/", h.cfg.CookieDomain, true, true)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("refresh_token", pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()), "/", h.cfg.CookieDomain, true, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    int(pair.AccessTTL.Seconds()),
		"user_id":       pair.UserID.String(),
	})
}

func (h *AuthHandler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Register(c.Request.Context(), body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"detail": "registration successful, check your email for a verification link",
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *AuthHandler) logout(c *gin.Context) {
	var body dto.LogoutDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "logged out"})
}

// verifyEmail accepts the token from the query string (the emailed link) or
// the request body.
func (h *AuthHandler) verifyEmail(c *gin.Context) {
	var body dto.VerifyEmailDTO
	if token := c.Query("token"); token != "" {
		body.Token = token
	} else if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	alreadyVerified, err := h.svc.VerifyEmail(c.Request.Context(), body.Token)
	if err != nil {
		HandleError(c, err)
		return
	}
	if alreadyVerified {
		c.JSON(http.StatusOK, gin.H{"detail": "email already verified"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "email verified successfully"})
}

func (h *AuthHandler) resendVerification(c *gin.Context) {
	var body dto.ResendVerificationDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ResendVerification(c.Request.Context(), body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "verification email sent"})
}

func (h *AuthHandler) requestPasswordReset(c *gin.Context) {
	var body dto.PasswordResetRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password reset email sent"})
}

// checkPasswordReset is the non-consuming dry-run behind the emailed link.
func (h *AuthHandler) checkPasswordReset(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := h.svc.CheckPasswordReset(c.Request.Context(), token); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "token is valid"})
}

func (h *AuthHandler) confirmPasswordReset(c *gin.Context) {
	var body dto.PasswordResetConfirmDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password has been reset"})
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body dto.ChangePasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), user.ID, body); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password changed"})
}

func (h *AuthHandler) me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) updateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserDTO(updated))
}

func toUserDTO(u model.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
