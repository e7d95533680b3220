package scoring

// Point weights applied by the scoring rules.
const (
	KeywordPoints           = 10
	ConstructionBonusPoints = 5
	WifiBonus               = 50
	ENRBonus                = 20
	LargeCompanyBonus       = 15
	MidCompanyBonus         = 10

	MaxRelevance = 100
	MaxPriority  = 150
)

// enrMarker flags prospects sourced from ENR rankings.
const enrMarker = "enr"

// relevanceKeywords are matched as lower-case substrings. Order is preserved
// in the matched keyword list.
var relevanceKeywords = []string{
	// networking
	"wifi",
	"wi-fi",
	"wireless",
	"network",
	"mesh",
	"connectivity",
	"broadband",
	"lte",
	"5g",
	// iot
	"iot",
	"sensor",
	"telemetry",
	"smart",
	"automation",
	// construction and field work
	"construction",
	"contractor",
	"infrastructure",
	"remote",
	"outdoor",
	"rural",
	"field",
	"mining",
	// general business
	"agriculture",
	"logistics",
	"warehouse",
	"campus",
	"hospitality",
	"manufacturing",
	"expansion",
	"ai",
}

// constructionBonusTerms add a smaller bonus and are not reported as matches.
var constructionBonusTerms = []string{
	"construction",
	"jobsite",
	"general contractor",
	"civil engineering",
}

// wifiIndicators signal that a prospect likely needs wireless products.
var wifiIndicators = []string{
	"wifi",
	"wi-fi",
	"wireless",
	"network",
	"mesh",
	"iot",
	"connectivity",
	"hotspot",
	"smart building",
	"field connectivity",
	"remote site",
	"outdoor coverage",
}

var (
	largeCompanyMarkers = []string{"large", "1000+", "enterprise"}
	midCompanyMarkers   = []string{"medium", "100-1000", "mid"}
)

// RelevanceKeywords returns a copy of the relevance keyword table.
func RelevanceKeywords() []string {
	return append([]string(nil), relevanceKeywords...)
}

// WifiIndicators returns a copy of the WiFi indicator table.
func WifiIndicators() []string {
	return append([]string(nil), wifiIndicators...)
}
