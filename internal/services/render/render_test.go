package render

import (
	"io"
	"strings"
	"testing"

	"dashsearch/internal/domain/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plain renders without colors so lines can be compared as text.
func plain() *Renderer {
	return New(lipgloss.NewRenderer(io.Discard))
}

func TestRenderLines(t *testing.T) {
	list := models.ResultList{
		{Kind: models.KindState, Label: "Bagmati", RouteKey: "P3"},
		{Kind: models.KindDistrict, Label: "Kaski", Region: "Gandaki", RouteKey: "P4"},
		{
			Kind:          models.KindResource,
			Label:         "National Public Health Laboratory",
			CategoryLabel: models.TestingLabsCategory,
			City:          "Kathmandu",
			State:         "Bagmati",
			Phone:         "01-4252421",
		},
	}

	lines := strings.Split(plain().Render(list), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "state"))
	assert.Contains(t, lines[0], "Bagmati → P3")

	assert.True(t, strings.HasPrefix(lines[1], "district"))
	assert.Contains(t, lines[1], "Kaski (Gandaki) → P4")

	assert.True(t, strings.HasPrefix(lines[2], "resource"))
	assert.Contains(t, lines[2], "National Public Health Laboratory · Covid19-Testing Labs · Kathmandu, Bagmati · 01-4252421")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, emptyMessage, plain().Render(nil))
}

func TestLocation(t *testing.T) {
	tests := []struct {
		city, state, want string
	}{
		{"Kathmandu", "Bagmati", "Kathmandu, Bagmati"},
		{"", "Bagmati", "Bagmati"},
		{"Pokhara", "", "Pokhara"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, location(tt.city, tt.state))
		})
	}
}

func TestSummary(t *testing.T) {
	list := models.ResultList{
		{Kind: models.KindState},
		{Kind: models.KindDistrict},
		{Kind: models.KindDistrict},
	}
	assert.Equal(t, "1 states, 2 districts, 0 resources", Summary(list))
}
