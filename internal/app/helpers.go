package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// handleServiceError maps service sentinel errors to HTTP status codes.
// Anything unrecognized becomes a 500 without leaking internals.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		util.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountBanned):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrCategoryNotEmpty):
		util.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrSelfReport),
		// A repeat report of an open case reads as a duplicate action
		errors.Is(err, service.ErrDuplicateReport):
		util.BadRequest(c, err.Error())
	default:
		util.InternalError(c, "Internal server error")
	}
}

// bindError turns binding failures into readable messages instead of the raw
// validator dump
func bindError(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		fields := make([]string, 0, len(validationErr))
		for _, fieldErr := range validationErr {
			switch fieldErr.Tag() {
			case "required":
				fields = append(fields, fmt.Sprintf("%s is required", fieldErr.Field()))
			case "min":
				fields = append(fields, fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param()))
			case "max":
				fields = append(fields, fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param()))
			case "email":
				fields = append(fields, fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
			case "oneof":
				fields = append(fields, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
			default:
				fields = append(fields, fmt.Sprintf("%s is invalid", fieldErr.Field()))
			}
		}
		util.BadRequest(c, strings.Join(fields, "; "))
		return
	}
	util.BadRequest(c, "Invalid request body")
}

// currentUserID reads the authenticated user from the context set by the
// auth middleware
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return "", false
	}
	return userID.(string), true
}

func isAdminRequest(c *gin.Context) bool {
	role, exists := c.Get("userRole")
	return exists && role.(string) == "admin"
}

// parsePagination reads limit/offset query params with sane bounds
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
