package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "villageboard/docs" // swagger docs

	"villageboard/internal/auth"
	"villageboard/internal/cache"
	"villageboard/internal/config"
	"villageboard/internal/db"
	"villageboard/internal/handler"
	"villageboard/internal/model"
	"villageboard/internal/repository"
	"villageboard/internal/router"
	"villageboard/internal/service"
	"villageboard/internal/upload"
)

// @title Village Board API
// @version 1.0
// @description Community bulletin board API with member identity, announcement moderation, and JWT authentication.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.Announcement{}, &model.Member{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Member{},
		&model.Announcement{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploads, err := newUploadStore(cfg)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(gormDB)
	announcementRepo := repository.NewAnnouncementRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(memberRepo, jwtService, tokenStore, uploads)
	memberService := service.NewMemberService(memberRepo, cacheClient, uploads)
	announcementService := service.NewAnnouncementService(announcementRepo, memberRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		memberHandler,
		announcementHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func newUploadStore(cfg *config.Config) (upload.Store, error) {
	if cfg.UploadDriver == "s3" {
		return upload.NewS3Store(context.Background(), upload.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
	}
	return upload.NewLocalStore(cfg.UploadDir)
}
