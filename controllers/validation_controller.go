package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/services"
)

type ValidationController struct {
	Auth *services.AuthService
	Log  *logger.Logger
}

func NewValidationController(auth *services.AuthService, log *logger.Logger) *ValidationController {
	return &ValidationController{Auth: auth, Log: log}
}

func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	exists, err := vc.Auth.UsernameTaken(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, vc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	exists, err := vc.Auth.EmailTaken(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, vc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
