package app

import (
	"net/http"

	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	reconcileService service.ReconcileService
}

func NewDashboardHandler(dashboardService service.DashboardService, reconcileService service.ReconcileService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reconcileService: reconcileService,
	}
}

// Stats returns the admin overview
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Dashboard stats retrieved successfully", gin.H{"stats": stats})
}

// CategoryDistribution returns per-category image counts
// GET /api/v1/admin/dashboard/categories
func (h *DashboardHandler) CategoryDistribution(c *gin.Context) {
	slices, err := h.dashboardService.CategoryDistribution()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category distribution retrieved successfully", gin.H{"categories": slices})
}

// TopContributors ranks users by upload count
// GET /api/v1/admin/dashboard/contributors
func (h *DashboardHandler) TopContributors(c *gin.Context) {
	limit, _ := parsePagination(c)
	contributors, err := h.dashboardService.TopContributors(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Top contributors retrieved successfully", gin.H{"contributors": contributors})
}

// RecentActivity returns the latest uploads and reports
// GET /api/v1/admin/dashboard/activity
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	limit, _ := parsePagination(c)
	activity, err := h.dashboardService.RecentActivity(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Recent activity retrieved successfully", gin.H{"activity": activity})
}

// PopularContent returns the most viewed active images
// GET /api/v1/admin/dashboard/popular
func (h *DashboardHandler) PopularContent(c *gin.Context) {
	limit, _ := parsePagination(c)
	images, err := h.dashboardService.PopularContent(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Popular content retrieved successfully", gin.H{"images": images})
}

// Reconcile recomputes all denormalized counters from their source tables
// POST /api/v1/admin/reconcile
func (h *DashboardHandler) Reconcile(c *gin.Context) {
	likesRepaired, err := h.reconcileService.RecountAllImageLikes()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	categoriesRepaired, err := h.reconcileService.RecountAllCategoryImages()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reconciliation complete", gin.H{
		"images_repaired":     likesRepaired,
		"categories_repaired": categoriesRepaired,
	})
}

// ReconcileImage recomputes one image's likes counter
// POST /api/v1/admin/reconcile/images/:id
func (h *DashboardHandler) ReconcileImage(c *gin.Context) {
	count, err := h.reconcileService.RecountImageLikes(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Image counter reconciled", gin.H{"likes_count": count})
}

// ReconcileCategory recomputes one category's image counter
// POST /api/v1/admin/reconcile/categories/:id
func (h *DashboardHandler) ReconcileCategory(c *gin.Context) {
	count, err := h.reconcileService.RecountCategoryImages(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Category counter reconciled", gin.H{"image_count": count})
}
