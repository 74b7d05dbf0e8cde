package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/grimorio-eterno/grimorio-backend/docs"
	"github.com/grimorio-eterno/grimorio-backend/internal/campaign"
	"github.com/grimorio-eterno/grimorio-backend/internal/config"
	"github.com/grimorio-eterno/grimorio-backend/internal/handler"
	v2handler "github.com/grimorio-eterno/grimorio-backend/internal/handler/v2"
	"github.com/grimorio-eterno/grimorio-backend/internal/jobs"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/internal/routes"
	v2routes "github.com/grimorio-eterno/grimorio-backend/internal/routes/v2"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	pkgcache "github.com/grimorio-eterno/grimorio-backend/pkg/cache"
	pkglogger "github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// @title           Grimório Eterno API
// @version         1.0
// @description     Compêndio de campanhas de RPG de mesa - API de conteúdo
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api

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

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	zlog := pkglogger.GetLogger()
	zlog.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zlog.Info().
		Str("config", configPath).
		Str("content_root", cfg.Content.Root).
		Int("campaigns", len(cfg.Campaigns)).
		Bool("dev_mode", cfg.IsDevelopment()).
		Msg("config loaded")

	// Redis is optional; without it listing responses are simply uncached
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Warn().Err(err).Msg("redis unreachable, continuing without cache")
			redisClient = nil
		}
		cancel()
	}
	cacheSvc := pkgcache.NewService(redisClient)

	// Wiring: repository -> services -> handlers
	paths := repository.NewPaths(cfg.Content.Root)
	contentRepo := repository.NewContentRepository(paths)
	imageSvc := service.NewImageService(cfg.Content.PublicRoot, cfg.Upload.MaxSizeBytes)
	contentSvc := service.NewContentService(contentRepo, imageSvc, cacheSvc)
	resolver := campaign.NewResolver(cfg.Campaigns)

	contentHandler := handler.NewContentHandler(contentRepo)
	adminHandler := handler.NewAdminHandler(contentRepo, contentSvc)
	imageHandler := handler.NewImageHandler(imageSvc)
	v2ContentHandler := v2handler.NewContentHandler(contentSvc)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400 * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Middleware
	router.Use(middleware.CampaignContext(resolver))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "grimorio-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI, development only
	if cfg.IsDevelopment() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Static image directories
	router.Static("/saved-images", cfg.Content.PublicRoot+"/saved-images")
	router.Static("/temp-images", cfg.Content.PublicRoot+"/temp-images")

	routes.Setup(router, contentHandler, adminHandler, imageHandler, cfg.IsDevelopment())
	v2routes.Setup(router, v2ContentHandler, cfg.IsDevelopment())

	// Hourly temp-image sweep
	sweeper := jobs.NewSweeper(imageSvc)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start sweep scheduler: %v", err)
	}
	defer sweeper.Stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// splitAndTrim splits a comma-separated origin list, dropping blanks
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
