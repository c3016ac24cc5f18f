package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
)

type UserController struct {
	Profiles     *services.ProfileService
	Graph        *services.GraphService
	Feed         *services.FeedService
	Log          *logger.Logger
	PostsPerPage int
}

func NewUserController(profiles *services.ProfileService, graph *services.GraphService, feed *services.FeedService, log *logger.Logger, postsPerPage int) *UserController {
	return &UserController{Profiles: profiles, Graph: graph, Feed: feed, Log: log, PostsPerPage: postsPerPage}
}

func (uc *UserController) profile(c *gin.Context, user, viewer *models.User) (*ProfileResponse, error) {
	ctx := c.Request.Context()

	followers, err := uc.Graph.FollowerCount(ctx, user)
	if err != nil {
		return nil, err
	}
	following, err := uc.Graph.FollowingCount(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		UserResponse:   toUserResponse(uc.Profiles, user, profileAvatarSize),
		FollowersCount: followers,
		FollowingCount: following,
	}
	if viewer.ID == user.ID {
		resp.Email = user.Email
	} else {
		isFollowing, err := uc.Graph.IsFollowing(ctx, viewer, user)
		if err != nil {
			return nil, err
		}
		resp.IsFollowing = &isFollowing
	}
	return resp, nil
}

// GetUserProfile godoc
// @Summary Get a user's profile and posts
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query integer false "Page number (default: 1)"
// @Success 200 {object} StandardResponse
// @Router /users/{username} [get]
func (uc *UserController) GetUserProfile(c *gin.Context) {
	viewer, ok := requireUser(c)
	if !ok {
		return
	}

	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := uc.Profiles.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	profile, err := uc.profile(c, user, viewer)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	posts, err := uc.Feed.UserPosts(c.Request.Context(), user, query.Page, query.size(uc.PostsPerPage))
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"user":  profile,
			"posts": toPostResponses(uc.Profiles, posts.Items),
		},
		Pagination: paginationMeta(posts),
	})
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := uc.profile(c, user, user)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: profile})
}

// UpdateProfile replaces the about-me text. An omitted field leaves it alone.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var input struct {
		AboutMe *string `json:"aboutMe"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if input.AboutMe != nil {
		if err := uc.Profiles.UpdateAboutMe(c.Request.Context(), user, *input.AboutMe); err != nil {
			respondError(c, uc.Log, err)
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Your changes have been saved.",
		Data:    toUserResponse(uc.Profiles, user, profileAvatarSize),
	})
}

func (uc *UserController) DeleteAccount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if err := uc.Profiles.DeleteUser(c.Request.Context(), user); err != nil {
		respondError(c, uc.Log, err)
		return
	}

	uc.Log.WithUserID(user.ID).Info("account deleted")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Your account has been deleted."})
}
