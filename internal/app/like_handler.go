package app

import (
	"net/http"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle flips the like state of an image for the current user
// POST /api/v1/images/:id/like
func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	imageID := c.Param("id")
	if imageID == "" {
		util.BadRequest(c, "Image ID is required")
		return
	}

	result, err := h.likeService.ToggleLike(userID, imageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Image unliked"
	if result.Liked {
		message = "Image liked"
	}
	util.SuccessResponse(c, http.StatusOK, message, result)
}

// Status reports whether the current user has liked an image
// GET /api/v1/images/:id/like
func (h *LikeHandler) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	imageID := c.Param("id")
	if imageID == "" {
		util.BadRequest(c, "Image ID is required")
		return
	}

	liked, err := h.likeService.CheckStatus(userID, imageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Like status retrieved successfully", gin.H{"liked": liked})
}

// ImageLikes lists the users who liked an image
// GET /api/v1/images/:id/likes
func (h *LikeHandler) ImageLikes(c *gin.Context) {
	imageID := c.Param("id")
	if imageID == "" {
		util.BadRequest(c, "Image ID is required")
		return
	}

	limit, offset := parsePagination(c)
	likes, total, err := h.likeService.GetImageLikes(imageID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Likes retrieved successfully", gin.H{
		"likes":  likes,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// MyLikes lists the images the current user has liked
// GET /api/v1/likes/me
func (h *LikeHandler) MyLikes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	likes, total, err := h.likeService.GetMyLikes(userID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Liked images retrieved successfully", gin.H{
		"likes":  likes,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
