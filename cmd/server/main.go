package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/config"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/handler"
	"github.com/jmaalouf1/pm-tracker/internal/middleware"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/jmaalouf1/pm-tracker/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const redisPingTimeout = 3 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting pm-tracker service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis, zapLogger)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "pm-tracker"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "pm-tracker"})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "pm-tracker",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	router.POST("/api/v1/auth/login", handlers.Auth.Login)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		v1.GET("/auth/me", handlers.Auth.Me)

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.GET("", handlers.Auth.ListUsers)
			users.POST("", handlers.Auth.CreateUser)
			users.PUT("/:id", handlers.Auth.UpdateUser)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", handlers.Customer.List)
			customers.POST("", handlers.Customer.Create)
			customers.GET("/:id", handlers.Customer.Get)
			customers.PUT("/:id", handlers.Customer.Update)
			customers.POST("/:id/contacts", handlers.Customer.AddContact)
			customers.PUT("/:id/contacts/:contactId", handlers.Customer.UpdateContact)
			customers.DELETE("/:id/contacts/:contactId", handlers.Customer.DeleteContact)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", handlers.Project.List)
			projects.POST("", handlers.Project.Create)
			projects.GET("/:id", handlers.Project.Get)
			projects.PUT("/:id", handlers.Project.Update)
			projects.PATCH("/:id/finance", middleware.RequireRole("finance"), handlers.Project.FinancePatch)

			projects.GET("/:id/terms", handlers.Term.List)
			projects.PUT("/:id/terms", handlers.Term.Replace)
			projects.POST("/:id/terms/generate", handlers.Term.Generate)
		}

		terms := v1.Group("/terms")
		{
			terms.GET("", handlers.Term.Search)
			terms.GET("/export", handlers.Term.Export)
			terms.PATCH("/:id/status", handlers.Term.UpdateStatus)
		}

		templates := v1.Group("/term-templates")
		{
			templates.GET("", handlers.Template.List)
			templates.POST("", handlers.Template.Create)
			templates.PUT("/:id", handlers.Template.Update)
			templates.DELETE("/:id", handlers.Template.Delete)
		}

		importGroup := v1.Group("/import")
		{
			importGroup.POST("", handlers.Import.Upload)
			importGroup.GET("/template", handlers.Import.DownloadTemplate)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", handlers.Dashboard.Summary)
			dashboard.GET("/terms-by-status", handlers.Dashboard.TermsByStatus)
			dashboard.GET("/upcoming", handlers.Dashboard.Upcoming)
		}

		lookups := v1.Group("/lookups")
		{
			lookups.GET("/statuses", handlers.Lookup.ListStatuses)
			lookups.POST("/statuses", handlers.Lookup.EnsureStatus)
			lookups.GET("/segments", handlers.Lookup.ListSegments)
			lookups.POST("/segments", handlers.Lookup.EnsureSegment)
			lookups.GET("/service-lines", handlers.Lookup.ListServiceLines)
			lookups.POST("/service-lines", handlers.Lookup.EnsureServiceLine)
			lookups.GET("/partners", handlers.Lookup.ListPartners)
			lookups.POST("/partners", handlers.Lookup.EnsurePartner)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// initRedis returns nil when no redis host is configured; the dashboard cache
// degrades to direct queries in that case.
func initRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Host == "" {
		logger.Info("Redis not configured, dashboard cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, dashboard cache disabled", zap.Error(err))
		return nil
	}
	return client
}
