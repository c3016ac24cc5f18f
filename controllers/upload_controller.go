package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/services"
)

type UploadController struct {
	Profiles *services.ProfileService
	Log      *logger.Logger
}

func NewUploadController(profiles *services.ProfileService, log *logger.Logger) *UploadController {
	return &UploadController{Profiles: profiles, Log: log}
}

// UploadAvatar godoc
// @Summary Replace the current user's avatar
// @Description Multipart upload, field "avatar". jpeg, png or webp up to 5MB.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Router /profile/avatar [put]
func (uc *UploadController) UploadAvatar(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAvatarSize+1<<20)
	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required", "success": false})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}
	defer file.Close()

	url, err := uc.Profiles.UploadAvatar(c.Request.Context(), user, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Avatar updated",
		Data:    gin.H{"avatar": url},
	})
}
