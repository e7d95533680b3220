package dto

import "github.com/google/uuid"

// CampaignRequest is the payload for POST /campaigns. Targets are either the
// explicit company ids or the companies matching the filter fields.
type CampaignRequest struct {
	Subject       string      `json:"subject" validate:"required,max=255"`
	Body          string      `json:"body" validate:"required"`
	CompanyIDs    []uuid.UUID `json:"company_ids"`
	Status        string      `json:"status" validate:"omitempty,sales_status"`
	WifiOnly      bool        `json:"wifi_only"`
	MinPriority   int         `json:"min_priority" validate:"gte=0"`
	Limit         int         `json:"limit" validate:"gte=0,lte=500"`
	MarkContacted bool        `json:"mark_contacted"`
}
