package entity

import (
	"fmt"
	"strings"
)

// Status is one of the fixed sales pipeline stages.
type Status string

const (
	StatusNew         Status = "New"
	StatusContacted   Status = "Contacted"
	StatusReplied     Status = "Replied"
	StatusEngaged     Status = "Engaged"
	StatusQualified   Status = "Qualified"
	StatusProposal    Status = "Proposal"
	StatusNegotiation Status = "Negotiation"
	StatusWon         Status = "Won"
	StatusLost        Status = "Lost"
	StatusDormant     Status = "Dormant"
)

var knownStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusReplied,
	StatusEngaged,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusWon,
	StatusLost,
	StatusDormant,
}

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(raw string) (Status, error) {
	value := strings.TrimSpace(raw)
	for _, status := range knownStatuses {
		if strings.EqualFold(value, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Valid reports whether s is exactly one of the pipeline stages.
func (s Status) Valid() bool {
	for _, status := range knownStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AllStatuses lists every pipeline stage in declaration order.
func AllStatuses() []Status {
	return append([]Status(nil), knownStatuses...)
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
