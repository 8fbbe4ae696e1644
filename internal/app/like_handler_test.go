package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

const testJWTSecret = "test-secret-key"

type handlerEnv struct {
	router    *gin.Engine
	imageRepo repository.ImageRepository
	userRepo  repository.UserRepository
}

func setupLikeRoutes(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Image{}, &model.Like{}))

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db, nil)
	likeRepo := repository.NewLikeRepository(db, nil)
	likeService := service.NewLikeService(likeRepo, imageRepo, nil)
	likeHandler := NewLikeHandler(likeService)

	r := gin.New()
	auth := middleware.Auth(testJWTSecret)
	r.POST("/api/v1/images/:id/like", auth, likeHandler.Toggle)
	r.GET("/api/v1/images/:id/like", auth, likeHandler.Status)

	return &handlerEnv{router: r, imageRepo: imageRepo, userRepo: userRepo}
}

func (e *handlerEnv) createUser(t *testing.T, username string) (*model.User, string) {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
	require.NoError(t, e.userRepo.Create(user))

	token, err := util.GenerateToken(user.ID, user.Role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (e *handlerEnv) createImage(t *testing.T, uploaderID string) *model.Image {
	t.Helper()

	image := &model.Image{
		Title:        "Sunset",
		Filename:     "sunset",
		OriginalName: "sunset.jpg",
		URL:          "https://cdn.example.com/sunset.jpg",
		Size:         1024,
		MimeType:     "image/jpeg",
		UploadedBy:   uploaderID,
		IsActive:     true,
	}
	require.NoError(t, e.imageRepo.Create(image))
	return image
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestToggleEndpoint(t *testing.T) {
	env := setupLikeRoutes(t)
	uploader, _ := env.createUser(t, "uploader")
	_, token := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	// Like
	w, body := doRequest(t, env.router, http.MethodPost, "/api/v1/images/"+image.ID+"/like", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Image liked", body.Message)

	data := body.Data.(map[string]interface{})
	assert.Equal(t, true, data["liked"])
	assert.Equal(t, float64(1), data["likes_count"])

	// Unlike
	w, body = doRequest(t, env.router, http.MethodPost, "/api/v1/images/"+image.ID+"/like", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Image unliked", body.Message)

	data = body.Data.(map[string]interface{})
	assert.Equal(t, false, data["liked"])
	assert.Equal(t, float64(0), data["likes_count"])
}

func TestToggleEndpointErrors(t *testing.T) {
	env := setupLikeRoutes(t)
	_, token := env.createUser(t, "liker")

	// Missing auth
	w, body := doRequest(t, env.router, http.MethodPost, "/api/v1/images/some-id/like", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, body.Success)

	// Unknown image
	w, body = doRequest(t, env.router, http.MethodPost, "/api/v1/images/4dd3c2a0-0000-0000-0000-000000000000/like", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
}

func TestStatusEndpoint(t *testing.T) {
	env := setupLikeRoutes(t)
	uploader, _ := env.createUser(t, "uploader")
	_, token := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	w, body := doRequest(t, env.router, http.MethodGet, "/api/v1/images/"+image.ID+"/like", token)
	assert.Equal(t, http.StatusOK, w.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, false, data["liked"])

	_, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/images/"+image.ID+"/like", token)

	_, body = doRequest(t, env.router, http.MethodGet, "/api/v1/images/"+image.ID+"/like", token)
	data = body.Data.(map[string]interface{})
	assert.Equal(t, true, data["liked"])
}
