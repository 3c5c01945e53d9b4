package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/statestore"
	"github.com/declutterlabs/declutterd/internal/suggest"
)

func createFolderAction(name string) (string, map[string]any) {
	return ActionFolderCreated, map[string]any{"name": name}
}

// trainStore records n folder creations for name and folds them into the
// pattern table.
func trainStore(s *Store, name string, n int) {
	for i := 0; i < n; i++ {
		s.RecordAction(createFolderAction(name))
	}
	s.UpdateLearning()
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Interviews", []string{"interviews"}},
		{"multi word", "Raw Footage", []string{"raw", "footage"}},
		{"punctuation stripped", "B-Roll (exterior)", []string{"roll", "exterior"}},
		{"short words dropped", "VO & FX Mix", []string{"mix"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.in))
		})
	}
}

func TestStore_ActionCap(t *testing.T) {
	s := NewStore(nil, nil)
	for i := 0; i < maxActions+1; i++ {
		s.RecordAction("click", nil)
	}
	assert.Len(t, s.data.UserActions, trimActions)
}

func TestStore_HistoryCap(t *testing.T) {
	s := NewStore(nil, nil)
	for i := 0; i < maxHistory+1; i++ {
		s.RecordAnalysis(AnalysisRecord{Archetype: "documentary"})
	}
	assert.Len(t, s.History(), trimHistory)
}

func TestStore_UpdateLearning(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Raw Footage", 3)

	p, ok := s.data.FolderPatterns["Raw Footage"]
	require.True(t, ok)
	assert.Equal(t, 3, p.Usage)
	assert.Equal(t, []string{"raw", "footage"}, p.Keywords)
	assert.NotZero(t, p.LastUsed)
}

func TestStore_UpdateLearning_IgnoresOldActions(t *testing.T) {
	s := NewStore(nil, nil)
	past := time.Now().Add(-48 * time.Hour)
	s.now = func() time.Time { return past }
	s.RecordAction(createFolderAction("Stale"))
	s.now = time.Now

	s.UpdateLearning()
	assert.Empty(t, s.data.FolderPatterns)
}

func TestStore_UpdateLearning_IgnoresOtherActions(t *testing.T) {
	s := NewStore(nil, nil)
	s.RecordAction(ActionTemplateApplied, map[string]any{"templateId": "documentary"})
	s.RecordAction(ActionFolderCreated, nil)

	s.UpdateLearning()
	assert.Empty(t, s.data.FolderPatterns)
}

func TestStore_PatternTableEviction(t *testing.T) {
	s := NewStore(nil, nil)
	base := time.Now()
	for i := 0; i < maxFolderPatterns+5; i++ {
		stamp := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return stamp }
		s.RecordAction(createFolderAction(folderName(i)))
		s.UpdateLearning()
	}

	assert.Len(t, s.data.FolderPatterns, maxFolderPatterns)
	_, oldestKept := s.data.FolderPatterns[folderName(0)]
	assert.False(t, oldestKept)
	_, newestKept := s.data.FolderPatterns[folderName(maxFolderPatterns+4)]
	assert.True(t, newestKept)
}

func folderName(i int) string {
	return "Folder " + string(rune('A'+i/26)) + string(rune('A'+i%26))
}

func TestStore_Personalize(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 5)
	trainStore(s, "Music", 2)

	assets := []catalog.Asset{
		{ID: "a1", Name: "Interviews_Day1.mov"},
		{ID: "a2", Name: "Music_Bed.wav"},
		{ID: "a3", Name: "skyline.mov"},
	}
	got := s.Personalize(assets)

	// "Music" has usage 2, below the threshold.
	require.Len(t, got, 1)
	sug := got[0]
	assert.Equal(t, suggest.KindCreateFolder, sug.Kind)
	require.NotNil(t, sug.CreateFolder)
	assert.Equal(t, "Interviews", sug.CreateFolder.Name)
	assert.True(t, sug.CreateFolder.Personalized)
	assert.Equal(t, []string{"a1"}, sug.CreateFolder.MatchingAssetIDs)
	assert.InDelta(t, 0.5, sug.Confidence, 1e-9)
}

func TestStore_Personalize_ConfidenceCap(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 15)

	got := s.Personalize([]catalog.Asset{{ID: "a1", Name: "interviews.mov"}})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
}

func TestStore_Personalize_NoMatchingAssets(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 5)

	got := s.Personalize([]catalog.Asset{{ID: "a1", Name: "skyline.mov"}})
	assert.Empty(t, got)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 3)
	s.RecordAnalysis(AnalysisRecord{Archetype: "documentary", Confidence: 0.8})

	data, err := s.Export()
	require.NoError(t, err)

	other := NewStore(nil, nil)
	require.NoError(t, other.Import(data))

	assert.Equal(t, 3, other.data.FolderPatterns["Interviews"].Usage)
	require.Len(t, other.History(), 1)
	assert.Equal(t, "documentary", other.History()[0].Archetype)
}

// Import replaces sections present in the payload and keeps the rest.
func TestStore_ImportPartialPayload(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 3)

	payload := []byte(`{"folderPatterns":{"Music":{"keywords":["music"],"usage":4,"lastUsed":1}}}`)
	require.NoError(t, s.Import(payload))

	assert.Contains(t, s.data.FolderPatterns, "Music")
	assert.NotContains(t, s.data.FolderPatterns, "Interviews")
	// Raw actions were absent from the payload and survive.
	assert.NotEmpty(t, s.data.UserActions)
}

func TestStore_ImportMalformed(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 3)

	require.Error(t, s.Import([]byte("{broken")))
	assert.Contains(t, s.data.FolderPatterns, "Interviews")
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(nil, nil)
	trainStore(s, "Interviews", 3)
	s.RecordAnalysis(AnalysisRecord{Archetype: "documentary"})

	s.Reset()

	assert.Empty(t, s.data.UserActions)
	assert.Empty(t, s.data.FolderPatterns)
	assert.Empty(t, s.History())
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	state, err := statestore.New(t.TempDir())
	require.NoError(t, err)

	s := NewStore(state, nil)
	trainStore(s, "Interviews", 3)
	require.NoError(t, s.Flush())

	reloaded := NewStore(state, nil)
	assert.Equal(t, 3, reloaded.data.FolderPatterns["Interviews"].Usage)
}

func TestStore_LoadCorruptFallsBackEmpty(t *testing.T) {
	state, err := statestore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, state.Save(learningDoc, "not an object"))

	s := NewStore(state, nil)
	assert.Empty(t, s.data.UserActions)
	assert.Empty(t, s.data.FolderPatterns)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewStore(nil, nil)
	sched, err := NewScheduler(s, nil, WithInterval(time.Hour))
	require.NoError(t, err)

	require.NoError(t, sched.Start())
	assert.Error(t, sched.Start())

	s.RecordAction(createFolderAction("Interviews"))
	sched.Stop()
	sched.Stop()

	// Stop folds pending actions into patterns before the final flush.
	assert.Equal(t, 1, s.data.FolderPatterns["Interviews"].Usage)
}

func TestScheduler_NilStore(t *testing.T) {
	_, err := NewScheduler(nil, nil)
	assert.Error(t, err)
}
