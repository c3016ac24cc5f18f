package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/controllers"
	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/middleware"
	"github.com/v3blogs/api-go/services"
)

// Dependencies is everything the HTTP layer needs from main.
type Dependencies struct {
	Config   *config.Config
	Log      *logger.Logger
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer

	Auth     *services.AuthService
	Graph    *services.GraphService
	Feed     *services.FeedService
	Profiles *services.ProfileService
}

func SetupRoutes(r *gin.Engine, d Dependencies) {
	perPage := d.Config.PostsPerPage

	r.Use(middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler())
	}
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize controllers
	authController := controllers.NewAuthController(d.Auth, d.Profiles, d.Config, d.Log)
	userController := controllers.NewUserController(d.Profiles, d.Graph, d.Feed, d.Log, perPage)
	postController := controllers.NewPostController(d.Feed, d.Profiles, d.Log)
	interactionController := controllers.NewInteractionController(d.Graph, d.Profiles, d.Log, perPage)
	feedController := controllers.NewFeedController(d.Feed, d.Profiles, d.Log, perPage)
	uploadController := controllers.NewUploadController(d.Profiles, d.Log)
	validationController := controllers.NewValidationController(d.Auth, d.Log)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/reset-password-request", authController.ResetPasswordRequest)
		public.POST("/reset-password/:token", authController.ResetPassword)
		SetupValidationRoutes(public, validationController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware([]byte(d.Config.SecretKey), d.Profiles, d.Log))
	{
		protected.POST("/logout", authController.Logout)

		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)
		protected.DELETE("/profile", userController.DeleteAccount)

		SetupPostRoutes(protected, postController)
		SetupUserRoutes(protected, userController)
		SetupInteractionRoutes(protected, interactionController)
		SetupFeedRoutes(protected, feedController)
		SetupUploadRoutes(protected, uploadController)
	}
}
