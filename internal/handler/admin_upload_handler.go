package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/service"
)

// AdminUploadHandler handles CSV ingestion and pipeline export for
// administrators.
type AdminUploadHandler struct {
	companiesService *service.CompaniesService
	exporter         service.PipelineExporter
}

// NewAdminUploadHandler wires a handler backed by the companies service.
// exporter may be nil when Google Sheets is not configured.
func NewAdminUploadHandler(companiesService *service.CompaniesService, exporter service.PipelineExporter) *AdminUploadHandler {
	return &AdminUploadHandler{companiesService: companiesService, exporter: exporter}
}

// ImportCSV handles POST /admin/import-csv requests.
func (h *AdminUploadHandler) ImportCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	report, err := h.companiesService.ImportCompaniesCSV(c.Request().Context(), file)
	if err != nil {
		return respondError(c, err, "failed to process csv")
	}

	return Success(c, http.StatusOK, "companies CSV processed", report)
}

// ExportSheets handles POST /admin/export/sheets requests.
func (h *AdminUploadHandler) ExportSheets(c echo.Context) error {
	rows, err := h.companiesService.ExportPipeline(c.Request().Context(), h.exporter)
	if err != nil {
		return respondError(c, err, "failed to export pipeline")
	}
	return Success(c, http.StatusOK, "pipeline exported", map[string]int{"rows": rows})
}
