package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/models"
)

type contextKey string

const (
	UserContextKey      contextKey = "user"
	RequestIDContextKey contextKey = "request_id"
)

// SetUser stores the authenticated user on the request context.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
}

// GetUser returns the authenticated user, or nil outside AuthMiddleware.
func GetUser(c *gin.Context) *models.User {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if u, ok := user.(*models.User); ok {
		return u
	}
	return nil
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDContextKey))
}
