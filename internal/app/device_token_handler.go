package app

import (
	"net/http"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type DeviceTokenHandler struct {
	tokenService service.DeviceTokenService
}

func NewDeviceTokenHandler(tokenService service.DeviceTokenService) *DeviceTokenHandler {
	return &DeviceTokenHandler{tokenService: tokenService}
}

// Register claims a push token for the current user
// POST /api/v1/devices
func (h *DeviceTokenHandler) Register(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.RegisterDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.tokenService.Register(userID, input); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Device registered successfully", nil)
}

// Revoke deactivates a single push token
// DELETE /api/v1/devices
func (h *DeviceTokenHandler) Revoke(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.tokenService.Revoke(userID, req.Token); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Device revoked successfully", nil)
}

// RevokeAll deactivates every push token for the current user
// DELETE /api/v1/devices/all
func (h *DeviceTokenHandler) RevokeAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.tokenService.RevokeAll(userID); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "All devices revoked successfully", nil)
}
