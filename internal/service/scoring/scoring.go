// Package scoring computes the derived prospect scores from free-text company
// fields. Every function is pure.
package scoring

import "strings"

// Input carries the company text fields consulted by the scoring rules.
// Missing values are represented by empty strings.
type Input struct {
	Name          string
	Website       string
	Notes         string
	Industry      string
	Description   string
	Source        string
	EmployeeCount string
}

// Relevance is the keyword-based topical fit of a company.
type Relevance struct {
	Score           int
	MatchedKeywords []string
}

// Result bundles every derived field computed for a company.
type Result struct {
	RelevanceScore  int
	MatchedKeywords []string
	WifiRequired    bool
	PriorityScore   int
}

// Evaluate computes relevance, WiFi requirement and priority in one pass.
func Evaluate(input Input) Result {
	relevance := ComputeRelevance(input)
	wifi := DetectWifiRequirement(input)
	return Result{
		RelevanceScore:  relevance.Score,
		MatchedKeywords: relevance.MatchedKeywords,
		WifiRequired:    wifi,
		PriorityScore:   priorityFrom(relevance.Score, wifi, input),
	}
}

// ComputeRelevance scores keyword density across name, website, notes,
// industry and description. Matching is substring based.
func ComputeRelevance(input Input) Relevance {
	text := joinLower(input.Name, input.Website, input.Notes, input.Industry, input.Description)

	score := 0
	matched := make([]string, 0)
	for _, keyword := range relevanceKeywords {
		if strings.Contains(text, keyword) {
			score += KeywordPoints
			matched = append(matched, keyword)
		}
	}
	for _, term := range constructionBonusTerms {
		if strings.Contains(text, term) {
			score += ConstructionBonusPoints
		}
	}

	return Relevance{
		Score:           clamp(score, 0, MaxRelevance),
		MatchedKeywords: matched,
	}
}

// DetectWifiRequirement looks for wireless indicators in name, notes and
// industry only. Website and description are not consulted.
func DetectWifiRequirement(input Input) bool {
	text := joinLower(input.Name, input.Notes, input.Industry)
	for _, indicator := range wifiIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// ComputePriority ranks outreach urgency from relevance, WiFi need, ENR
// sourcing and company size.
func ComputePriority(input Input) int {
	return priorityFrom(ComputeRelevance(input).Score, DetectWifiRequirement(input), input)
}

func priorityFrom(relevance int, wifi bool, input Input) int {
	score := relevance
	if wifi {
		score += WifiBonus
	}
	if strings.Contains(strings.ToLower(input.Source), enrMarker) {
		score += ENRBonus
	}
	score += sizeBonus(input.EmployeeCount)
	return clamp(score, 0, MaxPriority)
}

func sizeBonus(employeeCount string) int {
	size := strings.ToLower(employeeCount)
	if containsAny(size, largeCompanyMarkers) {
		return LargeCompanyBonus
	}
	if containsAny(size, midCompanyMarkers) {
		return MidCompanyBonus
	}
	return 0
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func joinLower(fields ...string) string {
	return strings.ToLower(strings.Join(fields, " "))
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
