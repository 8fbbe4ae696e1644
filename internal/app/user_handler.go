package app

import (
	"net/http"

	"lumina/internal/repository"
	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users for administration
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	users, total, err := h.userService.List(repository.UserListParams{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get returns one user
// GET /api/v1/admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// Update changes a user's role or status
// PUT /api/v1/admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateRoleStatus(adminID, c.Param("id"), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User updated successfully", gin.H{"user": user})
}

// Delete removes a user account and its content
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), adminID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
