package controllers

import (
	"time"

	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
)

// Gravatar sizes used by the web client.
const (
	profileAvatarSize = 128
	postAvatarSize    = 36
	listAvatarSize    = 70
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
	NextPage    int   `json:"nextPage,omitempty"`
	PrevPage    int   `json:"prevPage,omitempty"`
}

// PageQuery is bound from ?page=&pageSize=. Out-of-range pages are clamped by
// the services.
type PageQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

func (q PageQuery) size(fallback int) int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return fallback
}

func paginationMeta[T any](p *services.Page[T]) *PaginationMeta {
	return &PaginationMeta{
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		TotalItems:  p.Total,
		TotalPages:  p.TotalPages(),
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
		NextPage:    p.NextNum,
		PrevPage:    p.PrevNum,
	}
}

type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	AboutMe   *string    `json:"aboutMe,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ProfileResponse struct {
	UserResponse
	Email          string `json:"email,omitempty"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
	IsFollowing    *bool  `json:"isFollowing,omitempty"`
}

type PostResponse struct {
	ID        uint          `json:"id"`
	Body      string        `json:"body"`
	Timestamp time.Time     `json:"timestamp"`
	Author    *UserResponse `json:"author,omitempty"`
}

func toUserResponse(profiles *services.ProfileService, u *models.User, avatarSize int) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		AboutMe:   u.AboutMe,
		LastSeen:  u.LastSeen,
		Avatar:    profiles.Avatar(u, avatarSize),
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(profiles *services.ProfileService, users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(profiles, &users[i], listAvatarSize))
	}
	return out
}

func toPostResponses(profiles *services.ProfileService, posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp := PostResponse{ID: p.ID, Body: p.Body, Timestamp: p.Timestamp}
		if p.Author != nil {
			author := toUserResponse(profiles, p.Author, postAvatarSize)
			resp.Author = &author
		}
		out = append(out, resp)
	}
	return out
}
