package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"epool/internal/config"
	"epool/internal/database"
	"epool/internal/mail"
	"epool/internal/middleware"
	"epool/internal/modules/auth"
	"epool/internal/modules/pool"
	jwtsvc "epool/internal/pkg/jwt"
	"epool/internal/redisdb"
	"epool/internal/repository"
	"epool/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}

	store, err := redisdb.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	defer store.Close()

	spaces, err := storage.New(context.Background(), storage.Config{
		AccessKeyID:     cfg.SpacesKey,
		SecretAccessKey: cfg.SpacesSecret,
		Bucket:          cfg.SpacesBucket,
		Region:          cfg.SpacesRegion,
		Endpoint:        cfg.SpacesEndpoint,
	})
	if err != nil {
		logger.Fatal("object storage init failed", zap.Error(err))
	}

	mailer := pickMailer(cfg)

	userRepo := repository.NewUserRepository(db)
	folderRepo := repository.NewPoolFolderRepository(db)
	memberRepo := repository.NewPoolMemberRepository(db)
	fileRepo := repository.NewPoolFileRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authService := auth.NewService(userRepo, store, j, mailer, cfg.OTPTTL, cfg.RefreshTokenTTL, cfg.BcryptCost)
	authHandler := auth.NewHandler(authService, cfg.DevMode)

	folderService := pool.NewFolderService(folderRepo, memberRepo, userRepo, cfg.PublicBaseURL)
	memberService := pool.NewMemberService(memberRepo, folderRepo, userRepo)
	fileService := pool.NewFileService(fileRepo, folderRepo, spaces)
	poolHandler := pool.NewHandler(folderService, memberService, fileService, cfg.UploadMaxBytes, cfg.AllowedMimeTypes)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	requireAuth := middleware.RequireAuth(j)
	optionalAuth := middleware.OptionalAuth(j)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1, requireAuth)
		poolHandler.RegisterRoutes(v1, requireAuth, optionalAuth)
	}

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.AppEnv == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// pickMailer falls back to console output in dev mode or when SMTP
// credentials are absent, so local signup flows stay testable.
func pickMailer(cfg *config.Config) mail.Mailer {
	if cfg.DevMode || cfg.SMTPUser == "" {
		return mail.DevConsoleMailer{}
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderEmail)
}
