package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/services"
	"github.com/v3blogs/api-go/utils"
)

type AuthController struct {
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Config   *config.Config
	Log      *logger.Logger
}

func NewAuthController(auth *services.AuthService, profiles *services.ProfileService, cfg *config.Config, log *logger.Logger) *AuthController {
	return &AuthController{Auth: auth, Profiles: profiles, Config: cfg, Log: log}
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username        string `json:"username" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ac.Auth.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}

	ac.Log.WithUserID(user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Congratulations, you are now a registered user!",
		"user":    toUserResponse(ac.Profiles, user, profileAvatarSize),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ac.Auth.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, []byte(ac.Config.SecretKey), ac.Config.AccessTokenTTL, time.Now())
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":   "Bearer",
		"access_token": accessToken,
		"expires_in":   int(ac.Config.AccessTokenTTL.Seconds()),
		"user":         toUserResponse(ac.Profiles, user, profileAvatarSize),
		"success":      true,
	})
}

// Logout has nothing to revoke: bearer tokens are discarded by the client.
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

// ResetPasswordRequest godoc
// @Summary Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Router /reset-password-request [post]
func (ac *AuthController) ResetPasswordRequest(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	err := ac.Auth.RequestPasswordReset(c.Request.Context(), input.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User with this email doesn't exist, please register first.", "success": false})
		return
	}
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check your email for the instructions to reset your password",
	})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := ac.Auth.ResetPassword(c.Request.Context(), c.Param("token"), input.Password); err != nil {
		respondError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Your password has been reset."})
}
