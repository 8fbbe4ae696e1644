package app

import (
	"io"
	"net/http"

	"lumina/internal/repository"
	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageService    service.ImageService
	maxUploadSizeMB int
}

func NewImageHandler(imageService service.ImageService, maxUploadSizeMB int) *ImageHandler {
	return &ImageHandler{
		imageService:    imageService,
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

// Upload handles multipart image uploads
// POST /api/v1/images
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.UploadImageInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > int64(h.maxUploadSizeMB)*1024*1024 {
		util.ErrorResponse(c, http.StatusRequestEntityTooLarge, "File too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.InternalError(c, "Failed to read uploaded file")
		return
	}

	input.Filename = fileHeader.Filename
	input.MimeType = fileHeader.Header.Get("Content-Type")

	image, err := h.imageService.Upload(c.Request.Context(), userID, data, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Image uploaded successfully", gin.H{"image": image})
}

// List returns images with filtering, search, and sorting
// GET /api/v1/images
func (h *ImageHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	params := repository.ImageListParams{
		CategoryID: c.Query("category_id"),
		UploadedBy: c.Query("uploaded_by"),
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		SortDesc:   c.DefaultQuery("order", "desc") != "asc",
		ActiveOnly: !isAdminRequest(c),
		Limit:      limit,
		Offset:     offset,
	}
	if featured := c.Query("featured"); featured != "" {
		val := featured == "true"
		params.Featured = &val
	}

	images, total, err := h.imageService.ListImages(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Images retrieved successfully", gin.H{
		"images": images,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Popular returns the most liked active images
// GET /api/v1/images/popular
func (h *ImageHandler) Popular(c *gin.Context) {
	limit, _ := parsePagination(c)
	images, err := h.imageService.PopularImages(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Popular images retrieved successfully", gin.H{"images": images})
}

// Get returns a single image and counts the view
// GET /api/v1/images/:id
func (h *ImageHandler) Get(c *gin.Context) {
	image, err := h.imageService.GetImage(c.Param("id"), true)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Image retrieved successfully", gin.H{"image": image})
}

// Update handles metadata edits by the uploader or an admin
// PUT /api/v1/images/:id
func (h *ImageHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.UpdateImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	image, err := h.imageService.UpdateImage(userID, isAdminRequest(c), c.Param("id"), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Image updated successfully", gin.H{"image": image})
}

// Delete removes an image
// DELETE /api/v1/images/:id
func (h *ImageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), userID, isAdminRequest(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Image deleted successfully", nil)
}

// Download counts a download and returns the file URL
// POST /api/v1/images/:id/download
func (h *ImageHandler) Download(c *gin.Context) {
	url, err := h.imageService.RegisterDownload(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Download registered", gin.H{"url": url})
}

// SetFeatured flags an image as featured
// PATCH /api/v1/admin/images/:id/featured
func (h *ImageHandler) SetFeatured(c *gin.Context) {
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	image, err := h.imageService.SetFeatured(c.Param("id"), req.Featured)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Image updated successfully", gin.H{"image": image})
}
