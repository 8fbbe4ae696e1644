package service

import (
	"errors"
	"log"
	"time"

	"lumina/internal/model"
	"lumina/internal/repository"

	"gorm.io/gorm"
)

type ReportService interface {
	// CreateReport files a report against a user or an image. A reporter
	// may hold at most one open report per target; filing again while one
	// is open returns ErrDuplicateReport.
	CreateReport(reporterID string, input CreateReportInput) (*model.Report, error)
	GetReport(id string) (*model.Report, error)
	ListReports(params repository.ReportListParams) ([]*model.Report, int64, error)
	MyReports(reporterID string, limit, offset int) ([]*model.Report, int64, error)
	// UpdateStatus moves a report along pending -> reviewed -> resolved or
	// rejected. Terminal reports cannot be touched again.
	UpdateStatus(reportID, adminID string, input UpdateReportStatusInput) (*model.Report, error)
	CountByStatus() (map[string]int64, error)
}

type CreateReportInput struct {
	TargetType  string `json:"target_type" binding:"required,oneof=user image"`
	TargetID    string `json:"target_id" binding:"required,uuid"`
	Reason      string `json:"reason" binding:"required,oneof=spam inappropriate harassment copyright fake violence other"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateReportStatusInput struct {
	Status     string `json:"status" binding:"required,oneof=reviewed resolved rejected"`
	AdminNotes string `json:"admin_notes" binding:"max=500"`
}

type reportService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	imageRepo  repository.ImageRepository
	notifier   NotificationService
}

func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	notifier NotificationService,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		imageRepo:  imageRepo,
		notifier:   notifier,
	}
}

func (s *reportService) CreateReport(reporterID string, input CreateReportInput) (*model.Report, error) {
	if err := s.validateTarget(reporterID, input.TargetType, input.TargetID); err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.FindOpenByReporterAndTarget(reporterID, input.TargetType, input.TargetID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateReport
	}

	report := &model.Report{
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		ReportedBy:  reporterID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      model.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) validateTarget(reporterID, targetType, targetID string) error {
	switch targetType {
	case model.ReportTargetUser:
		if targetID == reporterID {
			return ErrSelfReport
		}
		if _, err := s.userRepo.FindByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	case model.ReportTargetImage:
		if _, err := s.imageRepo.FindByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	default:
		return ErrValidation
	}
	return nil
}

func (s *reportService) GetReport(id string) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *reportService) ListReports(params repository.ReportListParams) ([]*model.Report, int64, error) {
	return s.reportRepo.List(params)
}

func (s *reportService) MyReports(reporterID string, limit, offset int) ([]*model.Report, int64, error) {
	return s.reportRepo.FindByReporter(reporterID, limit, offset)
}

func (s *reportService) UpdateStatus(reportID, adminID string, input UpdateReportStatusInput) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !validTransition(report.Status, input.Status) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	report.Status = input.Status
	report.ReviewedBy = &adminID
	report.ReviewedAt = &now
	if input.AdminNotes != "" {
		report.AdminNotes = input.AdminNotes
	}
	if err := s.reportRepo.Update(report); err != nil {
		return nil, err
	}

	// Tell the reporter. Best-effort only.
	if s.notifier != nil {
		if err := s.notifier.NotifyReportUpdate(report.ReportedBy, report.ID, report.Status); err != nil {
			log.Printf("Failed to notify reporter for report %s: %v", report.ID, err)
		}
	}
	return report, nil
}

// validTransition encodes the report status machine. Reviewed is an optional
// intermediate stop; resolved and rejected are terminal.
func validTransition(from, to string) bool {
	switch from {
	case model.ReportStatusPending:
		return to == model.ReportStatusReviewed ||
			to == model.ReportStatusResolved ||
			to == model.ReportStatusRejected
	case model.ReportStatusReviewed:
		return to == model.ReportStatusResolved ||
			to == model.ReportStatusRejected
	default:
		return false
	}
}

func (s *reportService) CountByStatus() (map[string]int64, error) {
	return s.reportRepo.CountByStatus()
}
