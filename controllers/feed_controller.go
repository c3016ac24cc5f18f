package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/services"
)

type FeedController struct {
	Feed     *services.FeedService
	Profiles *services.ProfileService
	Log      *logger.Logger
	PerPage  int
}

func NewFeedController(feed *services.FeedService, profiles *services.ProfileService, log *logger.Logger, perPage int) *FeedController {
	return &FeedController{Feed: feed, Profiles: profiles, Log: log, PerPage: perPage}
}

// GetUserFeed godoc
// @Summary Get the user's timeline
// @Description Posts by the user and by everyone they follow, newest first
// @Tags feed
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: POSTS_PER_PAGE, max: 100)"
// @Success 200 {object} StandardResponse
// @Router /feed [get]
func (fc *FeedController) GetUserFeed(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	page, err := fc.Feed.Feed(c.Request.Context(), user, query.Page, query.size(fc.PerPage))
	if err != nil {
		respondError(c, fc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       toPostResponses(fc.Profiles, page.Items),
		Pagination: paginationMeta(page),
	})
}

// Explore godoc
// @Summary List every post
// @Tags feed
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Success 200 {object} StandardResponse
// @Router /explore [get]
func (fc *FeedController) Explore(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	page, err := fc.Feed.Explore(c.Request.Context(), query.Page, query.size(fc.PerPage))
	if err != nil {
		respondError(c, fc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       toPostResponses(fc.Profiles, page.Items),
		Pagination: paginationMeta(page),
	})
}
