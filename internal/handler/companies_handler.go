package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/service"
)

// CompaniesHandler exposes the prospect catalogue and its status lifecycle.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Sort:    strings.TrimSpace(c.QueryParam("sort")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status, err := entity.ParseStatus(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid status")
		}
		filter.Status = &status
	}

	if raw := strings.TrimSpace(c.QueryParam("wifi")); raw != "" {
		wifi, err := strconv.ParseBool(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid wifi flag")
		}
		filter.WifiOnly = wifi
	}

	if raw := strings.TrimSpace(c.QueryParam("min_priority")); raw != "" {
		if minPriority, err := strconv.Atoi(raw); err == nil {
			filter.MinPriority = &minPriority
		}
	}

	filter = filter.WithDefaults()
	companies, err := h.service.ListCompanies(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}
	if companies == nil {
		companies = []entity.Company{}
	}

	return SuccessPage(c, "companies retrieved", companies, filter.Page, filter.PerPage, len(companies))
}

// Get handles GET /companies/:id requests.
func (h *CompaniesHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	company, err := h.service.GetCompany(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load company")
	}
	return Success(c, http.StatusOK, "company retrieved", company)
}

// History handles GET /companies/:id/history requests.
func (h *CompaniesHandler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	entries, err := h.service.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load status history")
	}
	return Success(c, http.StatusOK, "status history retrieved", entries)
}

// Create handles POST /companies requests.
func (h *CompaniesHandler) Create(c echo.Context) error {
	var req dto.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "invalid payload")
	}

	company, err := h.service.CreateCompany(c.Request().Context(), req, actorFromContext(c))
	if err != nil {
		return respondError(c, err, "failed to create company")
	}
	return Success(c, http.StatusCreated, "company created", company)
}

// TransitionStatus handles POST /companies/:id/status requests.
func (h *CompaniesHandler) TransitionStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	var req dto.TransitionStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "invalid payload")
	}

	status, err := entity.ParseStatus(req.Status)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid status")
	}

	result, err := h.service.TransitionStatus(c.Request().Context(), service.TransitionInput{
		CompanyID:     id,
		Status:        status,
		Actor:         actorFromContext(c),
		Reason:        req.Reason,
		Notes:         req.Notes,
		ActionTaken:   req.ActionTaken,
		NextSteps:     req.NextSteps,
		NextActionDue: req.NextActionDue,
	})
	if err != nil {
		return respondError(c, err, "failed to update status")
	}

	return Success(c, http.StatusOK, "status updated", dto.TransitionStatusResponse{
		CompanyID:         result.CompanyID,
		OldStatus:         result.OldStatus,
		NewStatus:         result.NewStatus,
		UpdatedNextAction: result.NextAction,
	})
}

// Rescore handles POST /companies/:id/rescore requests.
func (h *CompaniesHandler) Rescore(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	company, err := h.service.Rescore(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to rescore company")
	}
	return Success(c, http.StatusOK, "company rescored", company)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
