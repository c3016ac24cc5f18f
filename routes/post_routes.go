package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/controllers"
)

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController) {
	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
	}
}
