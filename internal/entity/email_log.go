package entity

import (
	"time"

	"github.com/google/uuid"
)

// Delivery outcomes recorded for each campaign recipient.
const (
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
	EmailStatusSkipped = "skipped"
)

// EmailLog records the outcome of a single outreach email.
type EmailLog struct {
	ID         uuid.UUID `json:"id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	CompanyID  uuid.UUID `json:"company_id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}
