package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	protected.PUT("/profile/avatar", uploadController.UploadAvatar)
}
