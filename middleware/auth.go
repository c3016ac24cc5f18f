package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/services"
	"github.com/v3blogs/api-go/utils"
)

// AuthMiddleware resolves the bearer token to a user, records the visit in
// last_seen and stores the user on the context.
func AuthMiddleware(secret []byte, profiles *services.ProfileService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "success": false})
			return
		}

		bearerToken := strings.Fields(authHeader)
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format", "success": false})
			return
		}

		userID, err := utils.ParseAccessToken(bearerToken[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "success": false})
			return
		}

		user, err := profiles.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "success": false})
				return
			}
			log.WithRequestID(utils.GetRequestID(c)).WithError(err).Error("load authenticated user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "success": false})
			return
		}

		if err := profiles.TouchLastSeen(c.Request.Context(), user); err != nil {
			log.WithRequestID(utils.GetRequestID(c)).WithError(err).Warn("update last seen")
		}

		utils.SetUser(c, user)
		c.Next()
	}
}
