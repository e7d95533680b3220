package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/auth"
	"github.com/octobees/prospect-crm/internal/config"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/handler"
	middlewarepkg "github.com/octobees/prospect-crm/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Companies   *handler.CompaniesHandler
	Reports     *handler.ReportsHandler
	Campaigns   *handler.CampaignHandler
	AdminUpload *handler.AdminUploadHandler
	// Metrics serves the Prometheus exposition; optional.
	Metrics http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	e.GET("/companies", handlers.Companies.List)
	e.GET("/companies/:id", handlers.Companies.Get)
	e.GET("/companies/:id/history", handlers.Companies.History)

	e.GET("/reports/pipeline", handlers.Reports.Pipeline)
	e.GET("/reports/top", handlers.Reports.Top)
	e.GET("/reports/wifi", handlers.Reports.Wifi)

	// JWT is attached per route so unknown paths still answer 404.
	secured := middlewarepkg.JWT(jwtManager)
	adminOnly := []echo.MiddlewareFunc{secured, middlewarepkg.RequireRole(entity.RoleAdmin)}

	e.POST("/companies", handlers.Companies.Create, secured)
	e.POST("/companies/:id/status", handlers.Companies.TransitionStatus, secured)
	e.POST("/companies/:id/rescore", handlers.Companies.Rescore, secured)
	e.POST("/campaigns", handlers.Campaigns.Send, secured, middlewarepkg.CampaignRateLimiter(cfg.RateLimitCampaign))
	e.GET("/campaigns/:id/logs", handlers.Campaigns.Logs, secured)

	e.POST("/admin/import-csv", handlers.AdminUpload.ImportCSV, adminOnly...)
	e.POST("/admin/export/sheets", handlers.AdminUpload.ExportSheets, adminOnly...)
}
