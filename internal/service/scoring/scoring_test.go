package scoring

import (
	"reflect"
	"strings"
	"testing"
)

func TestEvaluate_WirelessConstructionProspect(t *testing.T) {
	input := Input{
		Name:     "AlphaNet Mesh Solutions",
		Notes:    "wireless mesh network for construction sites",
		Industry: "construction",
	}

	result := Evaluate(input)

	if result.RelevanceScore != 45 {
		t.Fatalf("expected relevance 45, got %d", result.RelevanceScore)
	}
	want := []string{"wireless", "network", "mesh", "construction"}
	if !reflect.DeepEqual(result.MatchedKeywords, want) {
		t.Fatalf("expected matched keywords %v, got %v", want, result.MatchedKeywords)
	}
	if !result.WifiRequired {
		t.Fatalf("expected wifi requirement to be detected")
	}
	if result.PriorityScore != 95 {
		t.Fatalf("expected priority 95, got %d", result.PriorityScore)
	}
}

func TestEvaluate_NoSignals(t *testing.T) {
	result := Evaluate(Input{Name: "Generic Co"})

	if result.RelevanceScore != 0 || len(result.MatchedKeywords) != 0 {
		t.Fatalf("expected (0, []), got (%d, %v)", result.RelevanceScore, result.MatchedKeywords)
	}
	if result.MatchedKeywords == nil {
		t.Fatalf("expected empty, non-nil matched keyword list")
	}
	if result.WifiRequired {
		t.Fatalf("expected no wifi requirement")
	}
	if result.PriorityScore != 0 {
		t.Fatalf("expected priority 0, got %d", result.PriorityScore)
	}
}

func TestComputeRelevance_EmptyInput(t *testing.T) {
	got := ComputeRelevance(Input{})
	if got.Score != 0 || len(got.MatchedKeywords) != 0 {
		t.Fatalf("expected zero relevance for empty input, got %+v", got)
	}
}

func TestComputeRelevance_SubstringFalsePositive(t *testing.T) {
	got := ComputeRelevance(Input{Name: "Fresh Air Handling"})
	if got.Score != KeywordPoints {
		t.Fatalf("expected 'ai' inside 'air' to count, got %d", got.Score)
	}
	if !reflect.DeepEqual(got.MatchedKeywords, []string{"ai"}) {
		t.Fatalf("unexpected matches: %v", got.MatchedKeywords)
	}
}

func TestComputeRelevance_ConsultsWebsiteAndDescription(t *testing.T) {
	got := ComputeRelevance(Input{Website: "https://broadband.example", Description: "warehouse operator"})
	if got.Score != 2*KeywordPoints {
		t.Fatalf("expected 20, got %d", got.Score)
	}
}

func TestComputeRelevance_ConstructionBonusNotListed(t *testing.T) {
	got := ComputeRelevance(Input{Notes: "jobsite offices"})
	if got.Score != ConstructionBonusPoints {
		t.Fatalf("expected bonus only, got %d", got.Score)
	}
	if len(got.MatchedKeywords) != 0 {
		t.Fatalf("bonus terms must not be reported, got %v", got.MatchedKeywords)
	}
}

func TestComputeRelevance_Clamp(t *testing.T) {
	notes := strings.Repeat(strings.Join(RelevanceKeywords(), " ")+" ", 5)
	got := ComputeRelevance(Input{Notes: notes + " jobsite general contractor civil engineering"})
	if got.Score != MaxRelevance {
		t.Fatalf("expected relevance clamped to %d, got %d", MaxRelevance, got.Score)
	}
	if len(got.MatchedKeywords) != len(RelevanceKeywords()) {
		t.Fatalf("expected every keyword matched once, got %d", len(got.MatchedKeywords))
	}
}

func TestComputeRelevance_Monotonic(t *testing.T) {
	base := Input{Name: "Delta Logistics", Notes: "regional carrier"}
	before := ComputeRelevance(base).Score

	extended := base
	extended.Notes += " telemetry"
	after := ComputeRelevance(extended).Score

	if after < before {
		t.Fatalf("adding a keyword decreased relevance: %d -> %d", before, after)
	}
	if after != before+KeywordPoints {
		t.Fatalf("expected +%d, got %d -> %d", KeywordPoints, before, after)
	}
}

func TestDetectWifiRequirement_IgnoresWebsiteAndDescription(t *testing.T) {
	input := Input{
		Name:        "Harbor Foods",
		Website:     "https://wireless.example.com",
		Description: "needs a mesh network",
	}
	if DetectWifiRequirement(input) {
		t.Fatalf("website and description must not trigger wifi detection")
	}

	input.Industry = "Smart Building services"
	if !DetectWifiRequirement(input) {
		t.Fatalf("expected multi-word indicator to match case-insensitively")
	}
}

func TestComputePriority_Bonuses(t *testing.T) {
	cases := map[string]struct {
		input Input
		want  int
	}{
		"enterprise size only": {
			input: Input{Name: "Generic Co", EmployeeCount: "Enterprise (5000+)"},
			want:  15,
		},
		"mid size": {
			input: Input{Name: "Generic Co", EmployeeCount: "100-1000"},
			want:  10,
		},
		"large wins over mid": {
			input: Input{Name: "Generic Co", EmployeeCount: "large mid-market"},
			want:  15,
		},
		"enr source": {
			input: Input{Name: "Generic Co", Source: "ENR Top 400"},
			want:  20,
		},
		"manual source": {
			input: Input{Name: "Generic Co", Source: "Manual"},
			want:  0,
		},
		"all bonuses clamp": {
			input: Input{
				Name:          "Wireless Mesh Network IoT",
				Notes:         strings.Join(RelevanceKeywords(), " "),
				Source:        "enr",
				EmployeeCount: "1000+",
			},
			want: MaxPriority,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := ComputePriority(tc.input); got != tc.want {
				t.Fatalf("ComputePriority()=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoring_Idempotent(t *testing.T) {
	input := Input{
		Name:          "Summit Contractors",
		Notes:         "remote jobsite needs outdoor coverage",
		Industry:      "construction",
		Source:        "ENR",
		EmployeeCount: "medium",
	}

	first := Evaluate(input)
	second := Evaluate(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if ComputePriority(input) != first.PriorityScore {
		t.Fatalf("ComputePriority disagrees with Evaluate")
	}
	if DetectWifiRequirement(input) != first.WifiRequired {
		t.Fatalf("DetectWifiRequirement disagrees with Evaluate")
	}
}

func TestScoring_Bounds(t *testing.T) {
	inputs := []Input{
		{},
		{Name: strings.Repeat("wifi ", 1000)},
		{Notes: strings.Repeat("construction jobsite ", 200), EmployeeCount: "enterprise", Source: "ENR"},
	}
	for _, input := range inputs {
		result := Evaluate(input)
		if result.RelevanceScore < 0 || result.RelevanceScore > MaxRelevance {
			t.Fatalf("relevance out of bounds: %d", result.RelevanceScore)
		}
		if result.PriorityScore < 0 || result.PriorityScore > MaxPriority {
			t.Fatalf("priority out of bounds: %d", result.PriorityScore)
		}
	}
}
