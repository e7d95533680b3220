package entity

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryEntry is an immutable audit record of one status assignment.
type StatusHistoryEntry struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	OldStatus   *Status   `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	Actor       string    `json:"actor"`
	Reason      string    `json:"reason,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	ActionTaken string    `json:"action_taken,omitempty"`
	NextSteps   string    `json:"next_steps,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
