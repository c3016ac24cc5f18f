package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
)

type InteractionController struct {
	Graph    *services.GraphService
	Profiles *services.ProfileService
	Log      *logger.Logger
	PerPage  int
}

func NewInteractionController(graph *services.GraphService, profiles *services.ProfileService, log *logger.Logger, perPage int) *InteractionController {
	return &InteractionController{Graph: graph, Profiles: profiles, Log: log, PerPage: perPage}
}

// FollowUser godoc
// @Summary Follow a user
// @Description Repeating the request is harmless
// @Tags interactions
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{username}/follow [post]
func (ic *InteractionController) FollowUser(c *gin.Context) {
	follower, ok := requireUser(c)
	if !ok {
		return
	}

	target, err := ic.Profiles.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	if err := ic.Graph.Follow(c.Request.Context(), follower, target); err != nil {
		respondError(c, ic.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"following": true,
		"message":   fmt.Sprintf("You are following %s!", target.Username),
	})
}

// UnfollowUser godoc
// @Summary Stop following a user
// @Tags interactions
// @Produce json
// @Param username path string true "Username to unfollow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{username}/unfollow [post]
func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	follower, ok := requireUser(c)
	if !ok {
		return
	}

	target, err := ic.Profiles.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	if follower.ID == target.ID {
		respondError(c, ic.Log, services.ErrCannotFollowSelf)
		return
	}

	if err := ic.Graph.Unfollow(c.Request.Context(), follower, target); err != nil {
		respondError(c, ic.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"following": false,
		"message":   fmt.Sprintf("You are not following %s.", target.Username),
	})
}

func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	ic.listUsers(c, ic.Graph.Followers)
}

func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	ic.listUsers(c, ic.Graph.Following)
}

type userLister = func(ctx context.Context, user *models.User, page, pageSize int) (*services.Page[models.User], error)

func (ic *InteractionController) listUsers(c *gin.Context, list userLister) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ic.Profiles.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	page, err := list(c.Request.Context(), user, query.Page, query.size(ic.PerPage))
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       toUserResponses(ic.Profiles, page.Items),
		Pagination: paginationMeta(page),
	})
}
