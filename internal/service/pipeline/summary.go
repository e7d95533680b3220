package pipeline

import (
	"sort"
	"strings"

	"github.com/octobees/prospect-crm/internal/entity"
)

// HighPriorityThreshold is the priority score at which a prospect counts as
// high priority in reports.
const HighPriorityThreshold = 100

// Defaults for the ranked target lists.
const (
	DefaultTopTargets  = 10
	DefaultWifiTargets = 20
)

// StatusSummary aggregates the companies sharing one status.
type StatusSummary struct {
	Status            entity.Status `json:"status"`
	Count             int           `json:"count"`
	AvgRelevance      float64       `json:"avg_relevance"`
	AvgPriority       float64       `json:"avg_priority"`
	WifiCount         int           `json:"wifi_count"`
	HighPriorityCount int           `json:"high_priority_count"`
}

// IsHighPriority reports whether score reaches HighPriorityThreshold.
func IsHighPriority(score int) bool {
	return score >= HighPriorityThreshold
}

// Summarize groups companies by status. Statuses without companies are absent.
func Summarize(companies []entity.Company) map[entity.Status]StatusSummary {
	type totals struct {
		StatusSummary
		relevance int
		priority  int
	}

	groups := make(map[entity.Status]*totals)
	for _, company := range companies {
		group, ok := groups[company.Status]
		if !ok {
			group = &totals{StatusSummary: StatusSummary{Status: company.Status}}
			groups[company.Status] = group
		}
		group.Count++
		group.relevance += company.RelevanceScore
		group.priority += company.PriorityScore
		if company.WifiRequired {
			group.WifiCount++
		}
		if IsHighPriority(company.PriorityScore) {
			group.HighPriorityCount++
		}
	}

	result := make(map[entity.Status]StatusSummary, len(groups))
	for status, group := range groups {
		summary := group.StatusSummary
		summary.AvgRelevance = float64(group.relevance) / float64(group.Count)
		summary.AvgPriority = float64(group.priority) / float64(group.Count)
		result[status] = summary
	}
	return result
}

// SummaryRows flattens a summary map into rows ordered from hottest to coldest.
func SummaryRows(summary map[entity.Status]StatusSummary) []StatusSummary {
	rows := make([]StatusSummary, 0, len(summary))
	for _, status := range Statuses() {
		if row, ok := summary[status]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// TopTargets returns up to n companies ordered by priority descending, the
// most recently updated first on ties. n <= 0 falls back to DefaultTopTargets.
func TopTargets(companies []entity.Company, n int) []entity.Company {
	if n <= 0 {
		n = DefaultTopTargets
	}
	return rankAndLimit(companies, n)
}

// WifiStrategyTargets returns up to limit WiFi-required companies ordered by
// priority descending. limit <= 0 falls back to DefaultWifiTargets.
func WifiStrategyTargets(companies []entity.Company, limit int) []entity.Company {
	if limit <= 0 {
		limit = DefaultWifiTargets
	}
	filtered := make([]entity.Company, 0, len(companies))
	for _, company := range companies {
		if company.WifiRequired {
			filtered = append(filtered, company)
		}
	}
	return rankAndLimit(filtered, limit)
}

func rankAndLimit(companies []entity.Company, limit int) []entity.Company {
	ranked := append([]entity.Company(nil), companies...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
