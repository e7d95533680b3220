package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/middleware"
	"github.com/octobees/prospect-crm/internal/service"
)

// respondError maps service errors onto the response envelope.
func respondError(c echo.Context, err error, fallback string) error {
	var (
		validationErr service.ValidationError
		notFoundErr   service.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		return Error(c, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, service.ErrMailerNotConfigured), errors.Is(err, service.ErrExportNotConfigured):
		return Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		c.Logger().Errorf("%s: %v", fallback, err)
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

func actorFromContext(c echo.Context) string {
	if actor := middleware.ActorFromContext(c); actor != "" {
		return actor
	}
	return service.SystemActor
}
