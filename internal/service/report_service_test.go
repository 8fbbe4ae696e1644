package service

import (
	"testing"

	"lumina/internal/model"
	"lumina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(env *testEnv, notifier NotificationService) ReportService {
	return NewReportService(env.reportRepo, env.userRepo, env.imageRepo, notifier)
}

func TestCreateReport(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createUser(t, "reporter")
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	svc := newReportService(env, nil)

	report, err := svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, report.Status)
	assert.Equal(t, reporter.ID, report.ReportedBy)
}

func TestCreateReportDeduplicatesWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createUser(t, "reporter")
	uploader := env.createUser(t, "uploader")
	admin := env.createUser(t, "admin")
	image := env.createImage(t, uploader.ID)

	svc := newReportService(env, nil)

	input := CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	}

	report, err := svc.CreateReport(reporter.ID, input)
	require.NoError(t, err)

	// Pending blocks a second report
	_, err = svc.CreateReport(reporter.ID, input)
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// Reviewed still blocks
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusReviewed})
	require.NoError(t, err)
	_, err = svc.CreateReport(reporter.ID, input)
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// Resolution reopens the door
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusResolved})
	require.NoError(t, err)
	_, err = svc.CreateReport(reporter.ID, input)
	assert.NoError(t, err)
}

func TestCreateReportDedupIsPerReporterAndTarget(t *testing.T) {
	env := newTestEnv(t)
	first := env.createUser(t, "first")
	second := env.createUser(t, "second")
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)
	other := env.createImage(t, uploader.ID)

	svc := newReportService(env, nil)

	_, err := svc.CreateReport(first.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)

	// Different reporter, same target
	_, err = svc.CreateReport(second.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	})
	assert.NoError(t, err)

	// Same reporter, different target
	_, err = svc.CreateReport(first.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   other.ID,
		Reason:     model.ReportReasonSpam,
	})
	assert.NoError(t, err)

	// Same reporter, same ID but as a user target is a different target
	_, err = svc.CreateReport(first.ID, CreateReportInput{
		TargetType: model.ReportTargetUser,
		TargetID:   uploader.ID,
		Reason:     model.ReportReasonHarassment,
	})
	assert.NoError(t, err)
}

func TestCreateReportTargetValidation(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createUser(t, "reporter")

	svc := newReportService(env, nil)

	// Self report
	_, err := svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetUser,
		TargetID:   reporter.ID,
		Reason:     model.ReportReasonSpam,
	})
	assert.ErrorIs(t, err, ErrSelfReport)

	// Missing image
	_, err = svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   "4dd3c2a0-0000-0000-0000-000000000000",
		Reason:     model.ReportReasonSpam,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown target type
	_, err = svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: "comment",
		TargetID:   "4dd3c2a0-0000-0000-0000-000000000000",
		Reason:     model.ReportReasonSpam,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateReportStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	reporter := env.createUser(t, "reporter")
	uploader := env.createUser(t, "uploader")

	svc := newReportService(env, nil)

	newReport := func() *model.Report {
		image := env.createImage(t, uploader.ID)
		report, err := svc.CreateReport(reporter.ID, CreateReportInput{
			TargetType: model.ReportTargetImage,
			TargetID:   image.ID,
			Reason:     model.ReportReasonSpam,
		})
		require.NoError(t, err)
		return report
	}

	// pending -> resolved skips the review stop
	report := newReport()
	updated, err := svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusResolved, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, admin.ID, *updated.ReviewedBy)
	assert.NotNil(t, updated.ReviewedAt)

	// Terminal states refuse further updates
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusReviewed})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusRejected})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// pending -> reviewed -> rejected
	report = newReport()
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusReviewed})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusRejected})
	require.NoError(t, err)

	// reviewed -> reviewed is not a transition
	report = newReport()
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusReviewed})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusReviewed})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateReportStatusNotifiesReporter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	reporter := env.createUser(t, "reporter")
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	notifSvc := NewNotificationService(env.notifRepo, env.userRepo, nil)
	svc := newReportService(env, notifSvc)

	report, err := svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusResolved})
	require.NoError(t, err)

	notifications, total, err := env.notifRepo.FindByUser(reporter.ID, repository.NotificationListParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, model.NotificationTypeReportUpdate, notifications[0].Type)
	require.NotNil(t, notifications[0].ReportID)
	assert.Equal(t, report.ID, *notifications[0].ReportID)
}

func TestCountByStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	reporter := env.createUser(t, "reporter")
	uploader := env.createUser(t, "uploader")

	svc := newReportService(env, nil)

	first := env.createImage(t, uploader.ID)
	second := env.createImage(t, uploader.ID)

	report, err := svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   first.ID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)
	_, err = svc.CreateReport(reporter.ID, CreateReportInput{
		TargetType: model.ReportTargetImage,
		TargetID:   second.ID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(report.ID, admin.ID, UpdateReportStatusInput{Status: model.ReportStatusResolved})
	require.NoError(t, err)

	counts, err := svc.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.ReportStatusPending])
	assert.Equal(t, int64(1), counts[model.ReportStatusResolved])
}
