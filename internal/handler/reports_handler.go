package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/service"
	"github.com/octobees/prospect-crm/internal/service/pipeline"
)

// ReportsHandler serves the pipeline reports.
type ReportsHandler struct {
	service *service.CompaniesService
}

// NewReportsHandler creates a new handler instance.
func NewReportsHandler(service *service.CompaniesService) *ReportsHandler {
	return &ReportsHandler{service: service}
}

// Pipeline handles GET /reports/pipeline requests.
func (h *ReportsHandler) Pipeline(c echo.Context) error {
	summary, err := h.service.PipelineSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to build pipeline summary")
	}
	if summary == nil {
		summary = []pipeline.StatusSummary{}
	}
	return Success(c, http.StatusOK, "pipeline summary", summary)
}

// Top handles GET /reports/top?n= requests.
func (h *ReportsHandler) Top(c echo.Context) error {
	n := parseIntDefault(c.QueryParam("n"), pipeline.DefaultTopTargets)
	companies, err := h.service.TopTargets(c.Request().Context(), n)
	if err != nil {
		return respondError(c, err, "failed to rank targets")
	}
	return Success(c, http.StatusOK, "top targets", nonNil(companies))
}

// Wifi handles GET /reports/wifi?limit= requests.
func (h *ReportsHandler) Wifi(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), pipeline.DefaultWifiTargets)
	companies, err := h.service.WifiTargets(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err, "failed to rank wifi targets")
	}
	return Success(c, http.StatusOK, "wifi targets", nonNil(companies))
}

func nonNil(companies []entity.Company) []entity.Company {
	if companies == nil {
		return []entity.Company{}
	}
	return companies
}
