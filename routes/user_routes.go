package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController) {
	users := protected.Group("/users")
	{
		users.GET("/:username", userController.GetUserProfile)
	}
}
