package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/entity"
)

// Sort orders understood by company listings.
const (
	SortPriority  = "priority"
	SortRecent    = "recent"
	SortRelevance = "relevance"
	SortName      = "name"
)

// ListFilter contains query parameters for company listing endpoints.
type ListFilter struct {
	Q           string
	Status      *entity.Status
	WifiOnly    bool
	MinPriority *int
	IDs         []uuid.UUID
	Sort        string
	Page        int
	PerPage     int
	// All disables pagination; used by reports and exports.
	All bool
}

// Pagination bounds applied to company listings.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// WithDefaults clamps pagination to the supported bounds.
func (f ListFilter) WithDefaults() ListFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

// CreateCompanyRequest is the payload for POST /companies.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Website       string `json:"website" validate:"omitempty,max=512"`
	Email         string `json:"email" validate:"omitempty,max=320"`
	Phone         string `json:"phone" validate:"omitempty,max=64"`
	Address       string `json:"address"`
	Industry      string `json:"industry"`
	EmployeeCount string `json:"employee_count"`
	RevenueRange  string `json:"revenue_range"`
	Notes         string `json:"notes"`
	Description   string `json:"description"`
	ContactPerson string `json:"contact_person"`
	JobTitle      string `json:"job_title"`
	DecisionMaker bool   `json:"decision_maker"`
	Source        string `json:"source"`
}

// TransitionStatusRequest is the payload for POST /companies/:id/status.
type TransitionStatusRequest struct {
	Status        string     `json:"status" validate:"required,sales_status"`
	Reason        string     `json:"reason" validate:"max=1000"`
	Notes         string     `json:"notes"`
	ActionTaken   string     `json:"action_taken"`
	NextSteps     string     `json:"next_steps"`
	NextActionDue *time.Time `json:"next_action_due,omitempty"`
}

// TransitionStatusResponse reports the outcome of a status change.
type TransitionStatusResponse struct {
	CompanyID         uuid.UUID     `json:"company_id"`
	OldStatus         entity.Status `json:"old_status"`
	NewStatus         entity.Status `json:"new_status"`
	UpdatedNextAction string        `json:"updated_next_action"`
}
