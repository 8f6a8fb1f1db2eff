package models

import "strings"

type Kind string

const (
	KindState    Kind = "state"
	KindDistrict Kind = "district"
	KindResource Kind = "resource"
)

// TestingLabsCategory replaces any resource category containing "Testing".
const TestingLabsCategory = "Covid19-Testing Labs"

// MatchResult is a source-tagged search hit ready for display.
type MatchResult struct {
	Kind     Kind   `json:"kind"`
	Label    string `json:"label"`
	RouteKey string `json:"route_key,omitempty"`

	// District only: display name of the parent region.
	Region string `json:"region,omitempty"`

	// Resource only.
	Category      string `json:"category,omitempty"`
	CategoryLabel string `json:"category_label,omitempty"`
	Website       string `json:"website,omitempty"`
	Description   string `json:"description,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// ResultList is ordered by source priority, then by match order inside a source.
type ResultList []MatchResult

// CategoryLabel maps a raw resource category to its display label.
func CategoryLabel(category string) string {
	if strings.Contains(category, "Testing") {
		return TestingLabsCategory
	}
	return category
}

// Count returns how many results of the given kind the list holds.
func (l ResultList) Count(kind Kind) int {
	n := 0
	for _, r := range l {
		if r.Kind == kind {
			n++
		}
	}
	return n
}
