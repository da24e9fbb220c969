package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caseflow/caseflow-backend/internal/config"
	"github.com/caseflow/caseflow-backend/internal/handler"
	"github.com/caseflow/caseflow-backend/internal/middleware"
	"github.com/caseflow/caseflow-backend/internal/migration"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/internal/service"
	"github.com/caseflow/caseflow-backend/internal/ws"
	pkgcache "github.com/caseflow/caseflow-backend/pkg/cache"
	"github.com/caseflow/caseflow-backend/pkg/jwt"
	pkglogger "github.com/caseflow/caseflow-backend/pkg/logger"
	pkgredis "github.com/caseflow/caseflow-backend/pkg/redisclient"
	pkgstorage "github.com/caseflow/caseflow-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           CaseFlow Backend API
// @version         1.0
// @description     Legal practice management backend - cases, messaging, billing
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	cacheService := pkgcache.NewService(redisClient)

	// S3-compatible storage for case documents
	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		var s3Err error
		s3Client, s3Err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Info("Warning: S3 storage init failed: %v (continuing without S3)", s3Err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// JWT Manager
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn,
		cfg.JWT.RefreshIn,
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "caseflow-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	activityRepo := repository.NewCaseActivityRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, jwtManager)
	messagingSvc := service.NewMessagingService(db, convRepo, msgRepo, userRepo, cacheService, wsHub)
	adminUserSvc := service.NewAdminUserService(db, userRepo, auditRepo, cacheService, wsHub)
	notifSvc := service.NewNotificationService(notifRepo, cacheService)
	caseSvc := service.NewCaseService(db, caseRepo, activityRepo, userRepo)
	docSvc := service.NewDocumentService(db, docRepo, caseRepo, s3Client)
	billingSvc := service.NewBillingService(db, invoiceRepo, caseRepo, cacheService)
	dashboardSvc := service.NewDashboardService(userRepo, caseRepo, invoiceRepo, msgRepo, cacheService)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	convHandler := handler.NewConversationHandler(messagingSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	adminUserHandler := handler.NewAdminUserHandler(adminUserSvc)
	caseHandler := handler.NewCaseHandler(caseSvc)
	docHandler := handler.NewDocumentHandler(docSvc)
	billingHandler := handler.NewBillingHandler(billingSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	wsHandler := handler.NewWSHandler(wsHub, allowOrigins)

	// Public auth routes
	auth := router.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/profile", middleware.JWTAuth(jwtManager), authHandler.GetProfile)
	auth.PUT("/profile", middleware.JWTAuth(jwtManager), authHandler.UpdateProfile)
	auth.POST("/password", middleware.JWTAuth(jwtManager), authHandler.ChangePassword)

	// Authenticated routes
	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtManager))

	api.POST("/conversations", convHandler.StartConversation)
	api.GET("/conversations", convHandler.GetInbox)
	api.GET("/conversations/:id", convHandler.GetConversation)
	api.POST("/conversations/:id/messages", convHandler.Reply)

	api.GET("/notifications", notifHandler.GetList)
	api.GET("/notifications/summary", notifHandler.GetSummary)
	api.POST("/notifications/:id/read", notifHandler.MarkAsRead)
	api.POST("/notifications/read-all", notifHandler.MarkAllAsRead)

	api.POST("/cases", caseHandler.CreateCase)
	api.GET("/cases", caseHandler.ListCases)
	api.GET("/cases/:id", caseHandler.GetCase)
	api.PATCH("/cases/:id/status", caseHandler.UpdateStatus)
	api.POST("/cases/:id/activities", caseHandler.RecordActivity)
	api.GET("/cases/:id/activities", caseHandler.ListActivities)

	api.POST("/cases/:id/documents", docHandler.Upload)
	api.GET("/cases/:id/documents", docHandler.ListByCase)
	api.GET("/documents/:id/url", docHandler.GetDownloadURL)

	api.GET("/cases/:id/invoices", billingHandler.ListByCase)
	api.GET("/billing/invoices", billingHandler.ListMine)

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(jwtManager), middleware.RequireAdmin())

	admin.GET("/users", adminUserHandler.ListUsers)
	admin.GET("/users/:id", adminUserHandler.GetUser)
	admin.POST("/users/:id/status", adminUserHandler.TransitionStatus)
	admin.GET("/audit-log", adminUserHandler.GetAuditLog)
	admin.GET("/dashboard", dashboardHandler.GetSummary)
	admin.POST("/invoices", billingHandler.CreateInvoice)
	admin.POST("/invoices/:id/pay", billingHandler.MarkPaid)

	// Real-time events
	router.GET("/ws", middleware.JWTAuth(jwtManager), wsHandler.Connect)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	// TranslateError maps duplicate-key failures to gorm.ErrDuplicatedKey,
	// which the conversation upsert relies on.
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))

	return db, nil
}

func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
