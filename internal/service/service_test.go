package service

import (
	"testing"

	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Image{},
		&model.Like{},
		&model.Report{},
		&model.Notification{},
		&model.DeviceToken{},
		&model.AppSetting{},
	))
	return db
}

// setupTestRedis starts a miniredis instance and wraps it in the app's client
func setupTestRedis(t *testing.T) *util.RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	return util.NewRedisClientFromAddr(mr.Addr())
}

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	imageRepo    repository.ImageRepository
	likeRepo     repository.LikeRepository
	reportRepo   repository.ReportRepository
	notifRepo    repository.NotificationRepository
	tokenRepo    repository.DeviceTokenRepository
	settingRepo  repository.SettingRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	redis := setupTestRedis(t)

	return &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db, redis),
		imageRepo:    repository.NewImageRepository(db, redis),
		likeRepo:     repository.NewLikeRepository(db, redis),
		reportRepo:   repository.NewReportRepository(db),
		notifRepo:    repository.NewNotificationRepository(db, redis),
		tokenRepo:    repository.NewDeviceTokenRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) createImage(t *testing.T, uploaderID string) *model.Image {
	t.Helper()

	image := &model.Image{
		Title:        "Sunset",
		Filename:     "sunset",
		OriginalName: "sunset.jpg",
		URL:          "https://cdn.example.com/sunset.jpg",
		PublicID:     "lumina/images/sunset",
		Size:         1024,
		MimeType:     "image/jpeg",
		UploadedBy:   uploaderID,
		IsActive:     true,
	}
	require.NoError(t, e.imageRepo.Create(image))
	return image
}

func (e *testEnv) createCategory(t *testing.T, name, slug string) *model.Category {
	t.Helper()

	category := &model.Category{
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	require.NoError(t, e.categoryRepo.Create(category))
	return category
}
