package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
)

type PostController struct {
	Feed     *services.FeedService
	Profiles *services.ProfileService
	Log      *logger.Logger
}

type CreatePostRequest struct {
	Body string `json:"body" binding:"required"`
}

func NewPostController(feed *services.FeedService, profiles *services.ProfileService, log *logger.Logger) *PostController {
	return &PostController{Feed: feed, Profiles: profiles, Log: log}
}

func (pc *PostController) CreatePost(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	post, err := pc.Feed.CreatePost(c.Request.Context(), user, req.Body)
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}

	posts := toPostResponses(pc.Profiles, []models.Post{*post})
	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Message: "Your post is now live!",
		Data:    posts[0],
	})
}
