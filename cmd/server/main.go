package main

import (
	"context"
	"log"
	"net/http"

	"aspira/docs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"aspira/internal/auth"
	"aspira/internal/cache"
	"aspira/internal/config"
	"aspira/internal/db"
	"aspira/internal/handler"
	"aspira/internal/logging"
	"aspira/internal/mail"
	"aspira/internal/model"
	"aspira/internal/moderation"
	"aspira/internal/repository"
	"aspira/internal/router"
	"aspira/internal/service"
	"aspira/internal/storage"
)

// @title Aspira Campus Community API
// @version 1.0
// @description Campus community backend with email-verified registration, JWT authentication, and a moderated feed of posts, comments, and reactions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewDefault()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	objectStore, err := storage.NewMinioStorage(
		context.Background(),
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init: %v", err)
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	filter := moderation.NewFilter()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	reactionRepo := repository.NewReactionRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	registrationService := service.NewRegistrationService(userRepo, profileRepo, mailer, logger, cfg.FrontendBaseURL)
	authService := service.NewAuthService(userRepo, profileRepo, jwtService, tokenStore, logger)
	profileService := service.NewProfileService(profileRepo, cacheClient)
	postService := service.NewPostService(postRepo, filter, objectStore, cacheClient, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, filter, logger)
	reactionService := service.NewReactionService(reactionRepo, postRepo, logger)

	// Handlers
	userHandler := handler.NewUserHandler(registrationService, profileService, cfg.FrontendBaseURL)
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService, commentService, reactionService)
	commentHandler := handler.NewCommentHandler(commentService)
	reactionHandler := handler.NewReactionHandler(reactionService)

	router.Register(
		e,
		cfg,
		jwtService,
		userHandler,
		authHandler,
		postHandler,
		commentHandler,
		reactionHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
