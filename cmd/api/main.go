package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/prospect-crm/internal/auth"
	"github.com/octobees/prospect-crm/internal/config"
	"github.com/octobees/prospect-crm/internal/database"
	"github.com/octobees/prospect-crm/internal/handler"
	"github.com/octobees/prospect-crm/internal/logger"
	"github.com/octobees/prospect-crm/internal/mailer"
	"github.com/octobees/prospect-crm/internal/metrics"
	middlewarepkg "github.com/octobees/prospect-crm/internal/middleware"
	"github.com/octobees/prospect-crm/internal/repository"
	"github.com/octobees/prospect-crm/internal/router"
	"github.com/octobees/prospect-crm/internal/service"
	"github.com/octobees/prospect-crm/internal/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	queryLogLevel, err := tracelog.LogLevelFromString(cfg.DatabaseLogLevel)
	if err != nil {
		queryLogLevel = tracelog.LogLevelError
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL,
		database.WithMaxConns(cfg.DatabaseMaxConns),
		database.WithQueryLog(log, queryLogLevel),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		applied, err := database.Migrate(context.Background(), pool)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Ints64("versions", applied).Msg("migrations applied")
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	emailLogsRepo := repository.NewPGXEmailLogsRepository(pool)

	authService := service.NewAuthService(usersRepo, jwtManager)
	companiesService := service.NewCompaniesService(companiesRepo,
		service.WithMetrics(m),
		service.WithLogger(log),
		service.WithPhoneRegion(cfg.DefaultPhoneRegion),
	)

	var sender service.Mailer
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP not configured, campaigns are disabled")
	}
	campaignService := service.NewCampaignService(companiesService, emailLogsRepo, sender, cfg.CampaignSendInterval)

	var exporter service.PipelineExporter
	if cfg.Sheets.Enabled() {
		sheetsExporter, err := sheets.NewExporter(context.Background(), cfg.Sheets)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create sheets exporter")
		}
		exporter = sheetsExporter
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Companies:   handler.NewCompaniesHandler(companiesService),
		Reports:     handler.NewReportsHandler(companiesService),
		Campaigns:   handler.NewCampaignHandler(campaignService),
		AdminUpload: handler.NewAdminUploadHandler(companiesService, exporter),
		Metrics:     m.Handler(),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
