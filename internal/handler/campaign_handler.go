package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/service"
)

// CampaignHandler triggers outreach campaigns.
type CampaignHandler struct {
	campaigns *service.CampaignService
}

// NewCampaignHandler creates a new handler instance.
func NewCampaignHandler(campaigns *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// Send handles POST /campaigns requests. The campaign runs within the request
// and the aggregated report is returned.
func (h *CampaignHandler) Send(c echo.Context) error {
	var req dto.CampaignRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "invalid payload")
	}

	in := service.CampaignInput{
		Subject:       req.Subject,
		Body:          req.Body,
		CompanyIDs:    req.CompanyIDs,
		WifiOnly:      req.WifiOnly,
		MinPriority:   req.MinPriority,
		Limit:         req.Limit,
		MarkContacted: req.MarkContacted,
		Actor:         actorFromContext(c),
	}
	if req.Status != "" {
		status, err := entity.ParseStatus(req.Status)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid status")
		}
		in.Status = &status
	}

	report, err := h.campaigns.Run(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "failed to run campaign")
	}
	return Success(c, http.StatusOK, "campaign processed", report)
}

// Logs handles GET /campaigns/:id/logs requests.
func (h *CampaignHandler) Logs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid campaign id")
	}

	logs, err := h.campaigns.Logs(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load campaign logs")
	}
	return Success(c, http.StatusOK, "campaign logs retrieved", logs)
}
