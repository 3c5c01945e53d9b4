package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"bytes", "512B", 512},
		{"kilobytes", "2KB", 2048},
		{"megabytes", "100MB", 104857600},
		{"gigabytes", "1.5GB", 1610612736},
		{"lowercase unit", "100mb", 104857600},
		{"spaced", "100 MB", 104857600},
		{"unknown unit", "100XB", 100},
		{"unparseable", "abc", 0},
		{"empty", "", 0},
		{"bare number", "100", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSize(tt.in))
		})
	}
}

// Unparseable size values resolve to 0 bytes, so a ">" size filter built
// from one matches every asset with a positive size.
func TestSizeFilter_UnparseableMatchesAllPositive(t *testing.T) {
	f := Filter{Type: FilterSize, Operator: OpGreater, Value: "abc"}

	assert.True(t, f.Matches(catalog.Asset{ID: "a1", Size: 1}))
	assert.True(t, f.Matches(catalog.Asset{ID: "a2", Size: 200000000}))
	assert.False(t, f.Matches(catalog.Asset{ID: "a3", Size: 0}))
}

func TestSizeFilter_Comparisons(t *testing.T) {
	asset := catalog.Asset{ID: "a1", Size: 200000000}

	tests := []struct {
		name string
		op   Operator
		val  string
		want bool
	}{
		{"greater true", OpGreater, "100MB", true},
		{"greater false", OpGreater, "1GB", false},
		{"less", OpLess, "1GB", true},
		{"greater equal", OpGreaterE, "100MB", true},
		{"less equal false", OpLessE, "100MB", false},
		{"equal within 1KB", OpEqual, "200000000B", true},
		{"unknown operator", OpContains, "100MB", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Type: FilterSize, Operator: tt.op, Value: tt.val}
			assert.Equal(t, tt.want, f.Matches(asset))
		})
	}
}

func TestSizeFilter_EqualTolerance(t *testing.T) {
	f := Filter{Type: FilterSize, Operator: OpEqual, Value: "1MB"}

	assert.True(t, f.Matches(catalog.Asset{Size: 1048576}))
	assert.True(t, f.Matches(catalog.Asset{Size: 1048576 + 1023}))
	assert.False(t, f.Matches(catalog.Asset{Size: 1048576 + 1024}))
}

func TestDurationFilter(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		op       Operator
		val      string
		want     bool
	}{
		{"greater", 120, OpGreater, "60", true},
		{"less", 30, OpLess, "60", true},
		{"equal within a second", 60.5, OpEqual, "60", true},
		{"equal outside a second", 62, OpEqual, "60", false},
		{"zero duration never matches", 0, OpGreater, "-1", false},
		{"unparseable value", 60, OpGreater, "long", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Type: FilterDuration, Operator: tt.op, Value: tt.val}
			assert.Equal(t, tt.want, f.Matches(catalog.Asset{Duration: tt.duration}))
		})
	}
}

func TestNameFilter_CaseInsensitiveSubstring(t *testing.T) {
	f := Filter{Type: FilterName, Operator: OpContains, Value: "Interview"}

	assert.True(t, f.Matches(catalog.Asset{Name: "interview_01.mov"}))
	assert.True(t, f.Matches(catalog.Asset{Name: "Pre-INTERVIEW notes"}))
	assert.False(t, f.Matches(catalog.Asset{Name: "broll.mov"}))
}

func TestTagFilter_ExactMatch(t *testing.T) {
	f := Filter{Type: FilterTag, Operator: OpContains, Value: "b-roll"}

	assert.True(t, f.Matches(catalog.Asset{Tags: []string{"b-roll", "exterior"}}))
	assert.False(t, f.Matches(catalog.Asset{Tags: []string{"B-Roll"}}))
	assert.False(t, f.Matches(catalog.Asset{Tags: nil}))
}

func TestTypeFilter(t *testing.T) {
	f := Filter{Type: FilterAssetType, Operator: OpEqual, Value: "audio"}

	assert.True(t, f.Matches(catalog.Asset{Type: catalog.TypeAudio}))
	assert.False(t, f.Matches(catalog.Asset{Type: catalog.TypeFootage}))
}

// An asset matching any one of a definition's filters is included; an
// asset matching none is excluded even when another filter type would
// have caught it.
func TestMatchAssets_ORSemantics(t *testing.T) {
	filters := []Filter{
		{Type: FilterName, Operator: OpContains, Value: "interview"},
		{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
	}
	assets := []catalog.Asset{
		{ID: "a1", Name: "Interview_01.mov", Type: catalog.TypeFootage},
		{ID: "a2", Name: "ambience.wav", Type: catalog.TypeAudio},
		{ID: "a3", Name: "skyline.mov", Type: catalog.TypeFootage, Tags: []string{"b-roll"}},
	}

	matched := MatchAssets(assets, filters)

	ids := make([]string, len(matched))
	for i, a := range matched {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"a1", "a2"}, ids)
}

func TestMatchAssets_NoFiltersMatchesNothing(t *testing.T) {
	assets := []catalog.Asset{{ID: "a1", Name: "anything"}}
	assert.Empty(t, MatchAssets(assets, nil))
}
