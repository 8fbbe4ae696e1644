package app

import (
	"net/http"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// List returns settings; public ones for everyone, all for admins
// GET /api/v1/settings
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.List(isAdminRequest(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", gin.H{"settings": settings})
}

// Get returns one setting by key
// GET /api/v1/settings/:key
func (h *SettingHandler) Get(c *gin.Context) {
	setting, err := h.settingService.Get(c.Param("key"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !setting.IsPublic && !isAdminRequest(c) {
		util.NotFound(c, "Setting not found")
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Setting retrieved successfully", gin.H{"setting": setting})
}

// Set creates or updates a setting
// PUT /api/v1/admin/settings
func (h *SettingHandler) Set(c *gin.Context) {
	var input service.SetSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	setting, err := h.settingService.Set(input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Setting saved successfully", gin.H{"setting": setting})
}

// Delete removes a setting
// DELETE /api/v1/admin/settings/:key
func (h *SettingHandler) Delete(c *gin.Context) {
	if err := h.settingService.Delete(c.Param("key")); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Setting deleted successfully", nil)
}
