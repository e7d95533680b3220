package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/service"
)

// RequestValidator plugs go-playground/validator into echo and reports the
// first failing field as a service.ValidationError.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator registers the domain tags on a fresh validator.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("sales_status", validateSalesStatus); err != nil {
		panic(fmt.Sprintf("register sales_status validation: %v", err))
	}
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return service.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return service.ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func validateSalesStatus(fl validator.FieldLevel) bool {
	_, err := entity.ParseStatus(fl.Field().String())
	return err == nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "sales_status":
		return fmt.Sprintf("must be one of %s", statusList())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func statusList() string {
	statuses := entity.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
