package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/repository"
)

// ValidationError reports input that was rejected before anything was
// persisted.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an unknown company id.
type NotFoundError struct {
	CompanyID uuid.UUID
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("company %s not found", e.CompanyID)
}

// Is lets callers match with errors.Is(err, repository.ErrCompanyNotFound).
func (e NotFoundError) Is(target error) bool {
	return target == repository.ErrCompanyNotFound
}

func notFoundOr(id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrCompanyNotFound) {
		return NotFoundError{CompanyID: id}
	}
	return err
}
