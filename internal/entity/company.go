package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSource is applied when a company is created without an explicit source.
const DefaultSource = "Manual"

// Company represents a prospect organisation tracked through the sales pipeline.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Website       *string   `json:"website,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Industry      *string   `json:"industry,omitempty"`
	EmployeeCount *string   `json:"employee_count,omitempty"`
	RevenueRange  *string   `json:"revenue_range,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Description   *string   `json:"description,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	JobTitle      *string   `json:"job_title,omitempty"`
	DecisionMaker bool      `json:"decision_maker"`

	RelevanceScore  int      `json:"relevance_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	WifiRequired    bool     `json:"wifi_required"`
	PriorityScore   int      `json:"priority_score"`

	Status          Status     `json:"status"`
	Source          string     `json:"source"`
	NextAction      string     `json:"next_action"`
	LastContactAt   *time.Time `json:"last_contact_at,omitempty"`
	NextActionDueAt *time.Time `json:"next_action_due_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayName returns the name used in outreach templates.
func (c Company) DisplayName() string {
	return c.Name
}

// Deref returns the pointed-to string or an empty string.
func Deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
