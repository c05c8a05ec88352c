package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"silkscan/internal/classifier"
	"silkscan/internal/config"
	"silkscan/internal/database"
	"silkscan/internal/domain/auth"
	"silkscan/internal/domain/upload"
	"silkscan/internal/middleware"
	jwtsvc "silkscan/internal/pkg/jwt"
	"silkscan/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(&auth.User{}, &upload.UploadRecord{}); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	userRepo := auth.NewRepository(db)
	uploadRepo := upload.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	classifierClient := classifier.New(cfg.ClassifierURL, cfg.ClassifierTimeout, log)
	fileStore := upload.NewFileStore(cfg.UploadDir)
	uploadService := upload.NewService(uploadRepo, fileStore, classifierClient, log)
	uploadHandler := upload.NewHandler(uploadService)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(upload.PublicURLBase, cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			upload.RegisterRoutes(protected, uploadHandler)
		}
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
