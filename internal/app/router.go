package app

import (
	"context"
	"log"
	"time"

	"lumina/internal/config"
	"lumina/internal/middleware"
	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/service"
	"lumina/internal/util"
	"lumina/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	// Set Gin mode
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Image{},
		&model.Like{},
		&model.Report{},
		&model.Notification{},
		&model.DeviceToken{},
		&model.AppSetting{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db, redisClient)
	imageRepo := repository.NewImageRepository(db, redisClient)
	likeRepo := repository.NewLikeRepository(db, redisClient)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db, redisClient)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("WebSocket hub started")

	// Initialize Cloudinary client
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		var err error
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v. Image uploads will be disabled.", err)
		} else {
			log.Println("Cloudinary initialized successfully")
		}
	} else {
		log.Println("Cloudinary credentials not configured. Image uploads will be disabled.")
	}

	// Initialize FCM client
	var fcmClient *util.FCMClient
	if cfg.FirebaseCredentialsFile != "" {
		var err error
		fcmClient, err = util.NewFCMClient(cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM: %v. Push notifications will be disabled.", err)
		} else {
			log.Println("FCM initialized successfully")
		}
	} else {
		log.Println("Firebase credentials not configured. Push notifications will be disabled.")
	}

	// Initialize services
	jwtExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, jwtExpiry)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, rabbitMQ)
	likeService := service.NewLikeService(likeRepo, imageRepo, notificationService)
	imageService := service.NewImageService(imageRepo, likeRepo, categoryRepo, cloudinaryClient, notificationService)
	categoryService := service.NewCategoryService(categoryRepo, imageRepo)
	reportService := service.NewReportService(reportRepo, userRepo, imageRepo, notificationService)
	deviceTokenService := service.NewDeviceTokenService(deviceTokenRepo)
	userService := service.NewUserService(userRepo, imageRepo, notificationRepo, deviceTokenRepo, likeService, imageService)
	reconcileService := service.NewReconcileService(likeRepo, imageRepo, categoryRepo)
	dashboardService := service.NewDashboardService(userRepo, imageRepo, categoryRepo, likeRepo, reportRepo, redisClient)
	settingService := service.NewSettingService(settingRepo)

	if err := settingService.SeedDefaults(); err != nil {
		log.Printf("Failed to seed default settings: %v", err)
	}

	// Start the notification worker if RabbitMQ is available
	if rabbitMQ != nil {
		worker := service.NewNotificationWorker(rabbitMQ, wsHub, fcmClient, deviceTokenRepo)
		go func() {
			if err := worker.Start(context.Background()); err != nil {
				log.Printf("Notification worker stopped: %v", err)
			}
		}()
	} else {
		log.Println("Notification worker not started - RabbitMQ connection failed")
	}

	// Initialize handlers
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	imageHandler := NewImageHandler(imageService, cfg.MaxUploadSizeMB)
	categoryHandler := NewCategoryHandler(categoryService)
	likeHandler := NewLikeHandler(likeService)
	reportHandler := NewReportHandler(reportService)
	notificationHandler := NewNotificationHandler(notificationService)
	deviceTokenHandler := NewDeviceTokenHandler(deviceTokenService)
	dashboardHandler := NewDashboardHandler(dashboardService, reconcileService)
	settingHandler := NewSettingHandler(settingService)

	auth := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)

			// Protected routes
			authGroup.GET("/me", auth, authHandler.Me)
			authGroup.PUT("/me", auth, authHandler.UpdateProfile)
			authGroup.PUT("/password", auth, authHandler.ChangePassword)
		}

		// Image routes
		images := api.Group("/images")
		{
			// Public routes
			images.GET("", imageHandler.List)
			images.GET("/popular", imageHandler.Popular)
			images.GET("/:id", imageHandler.Get)
			images.GET("/:id/likes", likeHandler.ImageLikes)
			images.POST("/:id/download", imageHandler.Download)

			// Protected routes
			images.Use(auth)
			{
				images.POST("", imageHandler.Upload)
				images.PUT("/:id", imageHandler.Update)
				images.DELETE("/:id", imageHandler.Delete)
				images.POST("/:id/like", likeHandler.Toggle)
				images.GET("/:id/like", likeHandler.Status)
			}
		}

		// Like routes
		likes := api.Group("/likes")
		likes.Use(auth)
		{
			likes.GET("/me", likeHandler.MyLikes)
		}

		// Category routes
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
		}

		// Report routes
		reports := api.Group("/reports")
		reports.Use(auth)
		{
			reports.POST("", reportHandler.Create)
			reports.GET("/me", reportHandler.MyReports)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		notifications.Use(auth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
			notifications.DELETE("/read", notificationHandler.ClearRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		// Device token routes
		devices := api.Group("/devices")
		devices.Use(auth)
		{
			devices.POST("", deviceTokenHandler.Register)
			devices.DELETE("", deviceTokenHandler.Revoke)
			devices.DELETE("/all", deviceTokenHandler.RevokeAll)
		}

		// Setting routes
		settings := api.Group("/settings")
		{
			settings.GET("", settingHandler.List)
			settings.GET("/:key", settingHandler.Get)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(auth)
		admin.Use(adminOnly)
		{
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.Get)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)
			admin.GET("/categories/:id/stats", categoryHandler.Stats)

			admin.PATCH("/images/:id/featured", imageHandler.SetFeatured)

			admin.GET("/reports", reportHandler.List)
			admin.GET("/reports/:id", reportHandler.Get)
			admin.PUT("/reports/:id", reportHandler.UpdateStatus)

			admin.GET("/dashboard", dashboardHandler.Stats)
			admin.GET("/dashboard/categories", dashboardHandler.CategoryDistribution)
			admin.GET("/dashboard/contributors", dashboardHandler.TopContributors)
			admin.GET("/dashboard/activity", dashboardHandler.RecentActivity)
			admin.GET("/dashboard/popular", dashboardHandler.PopularContent)
			admin.POST("/reconcile", dashboardHandler.Reconcile)
			admin.POST("/reconcile/images/:id", dashboardHandler.ReconcileImage)
			admin.POST("/reconcile/categories/:id", dashboardHandler.ReconcileCategory)

			admin.PUT("/settings", settingHandler.Set)
			admin.DELETE("/settings/:key", settingHandler.Delete)
		}
	}

	// WebSocket route
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(wsHub, cfg.JWTSecret).ServeHTTP(c.Writer, c.Request)
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			log.Printf("RabbitMQ connected successfully on attempt %d", attempt)
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to RabbitMQ after %d attempts: %v. Realtime delivery will be disabled.", maxRetries, err)
		}
	}

	return nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			log.Printf("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
			log.Println("Note: Application will continue without Redis caching")
		}
	}

	return nil
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	// Allowed origins (whitelist)
	allowedOrigins := []string{
		clientURL,
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
