package app

import (
	"net/http"
	"testing"

	"lumina/internal/middleware"
	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type notificationHandlerEnv struct {
	handlerEnv
	notificationService service.NotificationService
}

func setupNotificationRoutes(t *testing.T) *notificationHandlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Notification{}))

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db, nil)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, nil)
	notificationHandler := NewNotificationHandler(notificationService)

	r := gin.New()
	auth := middleware.Auth(testJWTSecret)
	r.PATCH("/api/v1/notifications/read-all", auth, notificationHandler.MarkAllAsRead)
	r.PATCH("/api/v1/notifications/:id/read", auth, notificationHandler.MarkAsRead)
	r.GET("/api/v1/notifications/unread-count", auth, notificationHandler.UnreadCount)

	return &notificationHandlerEnv{
		handlerEnv:          handlerEnv{router: r, userRepo: userRepo},
		notificationService: notificationService,
	}
}

func TestMarkAsReadEndpoint(t *testing.T) {
	env := setupNotificationRoutes(t)
	user, token := env.createUser(t, "alice")

	require.NoError(t, env.notificationService.NotifySystem(user.ID, "Welcome", "Hello"))

	notifications, _, err := env.notificationService.List(user.ID, repository.NotificationListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	w, body := doRequest(t, env.router, http.MethodPatch, "/api/v1/notifications/"+notifications[0].ID+"/read", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	w, body = doRequest(t, env.router, http.MethodGet, "/api/v1/notifications/unread-count", token)
	assert.Equal(t, http.StatusOK, w.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])

	// Someone else's notification reads as missing
	_, intruderToken := env.createUser(t, "bob")
	w, _ = doRequest(t, env.router, http.MethodPatch, "/api/v1/notifications/"+notifications[0].ID+"/read", intruderToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllAsReadEndpoint(t *testing.T) {
	env := setupNotificationRoutes(t)
	user, token := env.createUser(t, "alice")

	require.NoError(t, env.notificationService.NotifySystem(user.ID, "One", "First"))
	require.NoError(t, env.notificationService.NotifySystem(user.ID, "Two", "Second"))

	w, body := doRequest(t, env.router, http.MethodPatch, "/api/v1/notifications/read-all", token)
	assert.Equal(t, http.StatusOK, w.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}
