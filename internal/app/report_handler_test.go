package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lumina/internal/middleware"
	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/service"
	"lumina/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReportRoutes(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Image{}, &model.Report{}))

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db, nil)
	reportRepo := repository.NewReportRepository(db)
	reportService := service.NewReportService(reportRepo, userRepo, imageRepo, nil)
	reportHandler := NewReportHandler(reportService)

	r := gin.New()
	auth := middleware.Auth(testJWTSecret)
	r.POST("/api/v1/reports", auth, reportHandler.Create)

	return &handlerEnv{router: r, imageRepo: imageRepo, userRepo: userRepo}
}

func doJSONRequest(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestCreateReportEndpoint(t *testing.T) {
	env := setupReportRoutes(t)
	uploader, _ := env.createUser(t, "uploader")
	_, token := env.createUser(t, "reporter")
	image := env.createImage(t, uploader.ID)

	input := service.CreateReportInput{
		TargetType: "image",
		TargetID:   image.ID,
		Reason:     model.ReportReasonSpam,
	}

	w, body := doJSONRequest(t, env.router, http.MethodPost, "/api/v1/reports", token, input)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)

	// Re-reporting while the first report is still open is a duplicate
	// action and reads as a plain bad request
	w, body = doJSONRequest(t, env.router, http.MethodPost, "/api/v1/reports", token, input)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
}
