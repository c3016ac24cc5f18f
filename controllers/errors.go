package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
	"github.com/v3blogs/api-go/utils"
)

// respondError maps a service error onto a status code. Anything unexpected
// is logged and reported as a 500 without detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		status, message = http.StatusConflict, "Please use a different username."
	case errors.Is(err, services.ErrDuplicateEmail):
		status, message = http.StatusConflict, "Please use a different email address."
	case errors.Is(err, services.ErrAuthenticationFailure):
		status, message = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, services.ErrTokenInvalid):
		status, message = http.StatusBadRequest, "The password reset link is invalid or has expired."
	case errors.Is(err, services.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrCannotFollowSelf),
		errors.Is(err, services.ErrInvalidRegistration),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrInvalidPost),
		errors.Is(err, services.ErrInvalidProfile),
		errors.Is(err, services.ErrInvalidAvatar):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrStorageDisabled):
		status, message = http.StatusServiceUnavailable, err.Error()
	default:
		log.WithRequestID(utils.GetRequestID(c)).WithError(err).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
	}

	c.JSON(status, gin.H{"error": message, "success": false})
}

func requireUser(c *gin.Context) (*models.User, bool) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return nil, false
	}
	return user, true
}
