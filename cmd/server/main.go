package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gavinlouuu-kpt/pg-minio/internal/config"
	"github.com/gavinlouuu-kpt/pg-minio/internal/handlers"
	"github.com/gavinlouuu-kpt/pg-minio/internal/logger"
	customMiddleware "github.com/gavinlouuu-kpt/pg-minio/internal/middleware"
	"github.com/gavinlouuu-kpt/pg-minio/internal/recorder"
	"github.com/gavinlouuu-kpt/pg-minio/internal/renderer"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	var rec handlers.ObjectRecorder
	if cfg.PostgresDSN != "" {
		pg, err := recorder.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("recorder startup failed")
		}
		defer pg.Close()
		rec = pg
		log.Info().Msg("object recorder enabled")
	}

	e := newServer(cfg, rec, log)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newServer(cfg *config.Config, rec handlers.ObjectRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Services
	authService := services.NewAuthService(cfg.SessionKey)
	factory := &services.MinioFactory{}
	authHandler := handlers.NewAuthHandler(authService, factory, cfg.DefaultEndpoint)
	browserHandler := handlers.NewBrowserHandler(factory, cfg.PageSize, log)

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	e.Use(customMiddleware.CSRF())
	// Applied globally; public routes are skipped internally.
	e.Use(customMiddleware.Auth(authService))

	e.Renderer = renderer.New(rec != nil)

	// Public routes
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/connect", authHandler.ConnectPage)
	e.POST("/connect", authHandler.Connect)
	e.GET("/disconnect", authHandler.Disconnect)

	// Browsing
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/buckets")
	})
	e.GET("/buckets", browserHandler.ListBuckets)
	e.GET("/buckets/:bucketName", browserHandler.Browse)

	// Transfers
	e.POST("/buckets/:bucketName/upload", browserHandler.Upload)
	e.GET("/buckets/:bucketName/download", browserHandler.Download)
	e.GET("/buckets/:bucketName/preview", browserHandler.Preview)

	// Recorder, only when Postgres is configured
	if rec != nil {
		recordsHandler := handlers.NewRecordsHandler(factory, rec, log)
		e.POST("/buckets/:bucketName/record", recordsHandler.RecordFolder)
		e.GET("/records", recordsHandler.ListRecords)
	}

	return e
}
