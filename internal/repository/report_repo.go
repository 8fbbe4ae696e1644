package repository

import (
	"lumina/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(report *model.Report) error
	Update(report *model.Report) error
	FindByID(id string) (*model.Report, error)
	FindOpenByReporterAndTarget(reporterID, targetType, targetID string) (*model.Report, error)
	List(params ReportListParams) ([]*model.Report, int64, error)
	FindByReporter(reporterID string, limit, offset int) ([]*model.Report, int64, error)
	CountByStatus() (map[string]int64, error)
	Count() (int64, error)
}

// ReportListParams narrows the admin report listing
type ReportListParams struct {
	Status     string
	TargetType string
	Limit      int
	Offset     int
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a new report
func (r *reportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

// Update saves report changes
func (r *reportRepository) Update(report *model.Report) error {
	return r.db.Save(report).Error
}

// FindByID finds a report by ID with reporter and reviewer preloaded
func (r *reportRepository) FindByID(id string) (*model.Report, error) {
	var report model.Report
	err := r.db.Preload("Reporter").Preload("Reviewer").Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindOpenByReporterAndTarget finds a pending or reviewed report from the
// same reporter on the same target, the condition that blocks re-reporting
func (r *reportRepository) FindOpenByReporterAndTarget(reporterID, targetType, targetID string) (*model.Report, error) {
	var report model.Report
	err := r.db.Where(
		"reported_by = ? AND target_type = ? AND target_id = ? AND status IN ?",
		reporterID, targetType, targetID,
		[]string{model.ReportStatusPending, model.ReportStatusReviewed},
	).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports matching the params plus the total count
func (r *reportRepository) List(params ReportListParams) ([]*model.Report, int64, error) {
	query := r.db.Model(&model.Report{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.TargetType != "" {
		query = query.Where("target_type = ?", params.TargetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*model.Report
	err := query.Preload("Reporter").Preload("Reviewer").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// FindByReporter returns reports filed by a user
func (r *reportRepository) FindByReporter(reporterID string, limit, offset int) ([]*model.Report, int64, error) {
	var total int64
	if err := r.db.Model(&model.Report{}).Where("reported_by = ?", reporterID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*model.Report
	err := r.db.Where("reported_by = ?", reporterID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// CountByStatus aggregates the status histogram at read time; report counts
// are never denormalized
func (r *reportRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Count counts all reports
func (r *reportRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Report{}).Count(&count).Error
	return count, err
}
