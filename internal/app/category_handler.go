package app

import (
	"net/http"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns categories; admins also see inactive ones
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(!isAdminRequest(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", gin.H{"categories": categories})
}

// Get returns a category by ID or slug
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id := c.Param("id")

	category, err := h.categoryService.GetByID(id)
	if err == service.ErrNotFound {
		category, err = h.categoryService.GetBySlug(id)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category retrieved successfully", gin.H{"category": category})
}

// Create adds a new category
// POST /api/v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var input service.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.Create(input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Category created successfully", gin.H{"category": category})
}

// Update edits a category
// PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var input service.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Param("id"), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category updated successfully", gin.H{"category": category})
}

// Delete removes an empty category
// DELETE /api/v1/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}

// Stats returns live aggregate counters for one category
// GET /api/v1/admin/categories/:id/stats
func (h *CategoryHandler) Stats(c *gin.Context) {
	stats, err := h.categoryService.Stats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category stats retrieved successfully", gin.H{"stats": stats})
}
