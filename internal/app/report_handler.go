package app

import (
	"net/http"

	"lumina/internal/repository"
	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create files a report against a user or image
// POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.CreateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.reportService.CreateReport(userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Report submitted successfully", gin.H{"report": report})
}

// MyReports lists the current user's reports
// GET /api/v1/reports/me
func (h *ReportHandler) MyReports(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	reports, total, err := h.reportService.MyReports(userID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reports retrieved successfully", gin.H{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// List returns reports for moderation
// GET /api/v1/admin/reports
func (h *ReportHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	reports, total, err := h.reportService.ListReports(repository.ReportListParams{
		Status:     c.Query("status"),
		TargetType: c.Query("target_type"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Aggregated at read time, never stored
	byStatus, err := h.reportService.CountByStatus()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reports retrieved successfully", gin.H{
		"reports":   reports,
		"total":     total,
		"by_status": byStatus,
		"limit":     limit,
		"offset":    offset,
	})
}

// Get returns one report
// GET /api/v1/admin/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reportService.GetReport(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Report retrieved successfully", gin.H{"report": report})
}

// UpdateStatus moves a report through the moderation flow
// PUT /api/v1/admin/reports/:id
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.UpdateReportStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.reportService.UpdateStatus(c.Param("id"), adminID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Report updated successfully", gin.H{"report": report})
}
