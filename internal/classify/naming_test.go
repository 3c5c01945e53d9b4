package classify

import (
	"fmt"
	"testing"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(names ...string) []catalog.Asset {
	assets := make([]catalog.Asset, len(names))
	for i, n := range names {
		assets[i] = catalog.Asset{ID: fmt.Sprintf("a%d", i), Name: n, Type: catalog.TypeFootage}
	}
	return assets
}

func TestAnalyzeNaming_Consistent(t *testing.T) {
	// All snake_case, all lowercase: nothing mixed, full score.
	a := AnalyzeNaming(named("interview_01.mov", "interview_02.mov", "broll_03.mov", "music_bed.wav"))
	assert.Equal(t, 100.0, a.ConsistencyScore)
	assert.Equal(t, 100.0, a.HasUnderscores)
	assert.Equal(t, 0.0, a.HasHyphens)
}

func TestAnalyzeNaming_MixedSeparators(t *testing.T) {
	// 50/50 snake_case and kebab-case: one group violated, 80.
	a := AnalyzeNaming(named("clip_one.mov", "clip_two.mov", "clip-three.mov", "clip-four.mov"))
	assert.Equal(t, 80.0, a.ConsistencyScore)
}

func TestAnalyzeNaming_BothGroupsMixed(t *testing.T) {
	a := AnalyzeNaming(named("Clip_one.mov", "clip-two.mov", "CLIP THREE.MOV", "clipFour_05.mov"))
	assert.Equal(t, 60.0, a.ConsistencyScore)
}

func TestAnalyzeNaming_Empty(t *testing.T) {
	a := AnalyzeNaming(nil)
	assert.Equal(t, 100.0, a.ConsistencyScore)
	assert.Empty(t, a.CommonPrefixes)
}

func TestAnalyzeNaming_Prefixes(t *testing.T) {
	a := AnalyzeNaming(named(
		"Interview_01.mov", "Interview_02.mov", "Interview_03.mov",
		"BRoll_Sky.mov",
	))
	require.NotEmpty(t, a.CommonPrefixes)
	assert.Equal(t, "Interview", a.CommonPrefixes[0].Token)
	assert.Equal(t, 3, a.CommonPrefixes[0].Count)
}

func TestFindRedundantWords(t *testing.T) {
	assets := named(
		"project_interview_01.mov",
		"project_broll_02.mov",
		"project_music_03.wav",
		"extra_clip.mov",
	)

	words := FindRedundantWords(assets)
	require.NotEmpty(t, words)

	byWord := map[string]RedundantWord{}
	for _, w := range words {
		byWord[w.Word] = w
	}
	require.Contains(t, byWord, "project")
	assert.Equal(t, 3, byWord["project"].Frequency)
	assert.NotContains(t, byWord, "interview", "below threshold")

	// Descending frequency.
	for i := 1; i < len(words); i++ {
		assert.GreaterOrEqual(t, words[i-1].Frequency, words[i].Frequency)
	}

	// Counting is per asset: a word repeated inside one name counts once,
	// so "loop" stays below the two-asset threshold.
	words = FindRedundantWords(named("loop_loop_loop.mov", "other.mov"))
	for _, w := range words {
		assert.NotEqual(t, "loop", w.Word)
	}
}

func TestFindRedundantWords_ShortWordsSkipped(t *testing.T) {
	words := FindRedundantWords(named("ab_cd_01.mov", "ab_cd_02.mov", "ab_cd_03.mov"))
	for _, w := range words {
		assert.Greater(t, len(w.Word), 2)
	}
}
