// Package pipeline holds the sales status rules and the reporting aggregates
// built on top of them.
package pipeline

import (
	"sort"

	"github.com/octobees/prospect-crm/internal/entity"
)

// rank orders statuses by deal temperature, 1 coldest to 10 hottest. It is a
// display and sorting order, not a transition order.
var rank = map[entity.Status]int{
	entity.StatusLost:        1,
	entity.StatusDormant:     2,
	entity.StatusNew:         3,
	entity.StatusContacted:   4,
	entity.StatusReplied:     5,
	entity.StatusEngaged:     6,
	entity.StatusQualified:   7,
	entity.StatusProposal:    8,
	entity.StatusNegotiation: 9,
	entity.StatusWon:         10,
}

var nextActions = map[entity.Status]string{
	entity.StatusNew:         "Send initial outreach email",
	entity.StatusContacted:   "Follow up if no reply within 5 business days",
	entity.StatusReplied:     "Schedule a discovery call",
	entity.StatusEngaged:     "Run a site connectivity assessment",
	entity.StatusQualified:   "Prepare customized proposal",
	entity.StatusProposal:    "Follow up on proposal and answer questions",
	entity.StatusNegotiation: "Finalize pricing and contract terms",
	entity.StatusWon:         "Hand over to onboarding and deployment",
	entity.StatusLost:        "Record loss reason and revisit in 6 months",
	entity.StatusDormant:     "Re-engage with a new offer",
}

// InitialStatus is assigned to every newly created company.
const InitialStatus = entity.StatusNew

// Rank returns the temperature rank of status, or 0 when unknown.
func Rank(status entity.Status) int {
	return rank[status]
}

// NextAction returns the recommended follow-up for status.
func NextAction(status entity.Status) string {
	return nextActions[status]
}

// CanTransition reports whether moving from one status to another is allowed.
// Every known status may move to every other known status, including itself.
func CanTransition(from, to entity.Status) bool {
	return from.Valid() && to.Valid()
}

// Statuses lists every status from hottest to coldest.
func Statuses() []entity.Status {
	statuses := entity.AllStatuses()
	sort.Slice(statuses, func(i, j int) bool {
		return rank[statuses[i]] > rank[statuses[j]]
	})
	return statuses
}
