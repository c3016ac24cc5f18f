package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	users := protected.Group("/users")
	{
		users.POST("/:username/follow", interactionController.FollowUser)
		users.POST("/:username/unfollow", interactionController.UnfollowUser)
		users.GET("/:username/followers", interactionController.GetUserFollowers)
		users.GET("/:username/following", interactionController.GetUserFollowing)
	}
}
