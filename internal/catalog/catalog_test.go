package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateFolder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	f, err := m.CreateFolder(ctx, "Interviews", "red", "")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "Interviews", f.Name)
	assert.Equal(t, "red", f.Color)
	assert.Empty(t, f.ParentID)

	// Children attach by parent id.
	child, err := m.CreateFolder(ctx, "Subject A", "red", f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, child.ParentID)

	// Duplicate names are rejected case-insensitively.
	_, err = m.CreateFolder(ctx, "interviews", "blue", "")
	assert.ErrorIs(t, err, ErrDuplicateFolder)

	// Unknown parent.
	_, err = m.CreateFolder(ctx, "Orphan", "none", "missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestMemory_MoveAssets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddAssets(
		Asset{ID: "a1", Name: "clip1.mov", Type: TypeFootage},
		Asset{ID: "a2", Name: "clip2.mov", Type: TypeFootage},
	)
	f, err := m.CreateFolder(ctx, "Footage", "blue", "")
	require.NoError(t, err)

	// Empty list is a no-op even with an unknown folder.
	require.NoError(t, m.MoveAssets(ctx, nil, "missing"))

	require.NoError(t, m.MoveAssets(ctx, []string{"a1", "stale"}, f.ID))

	assets, err := m.ListAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.ID, assets[0].FolderID)
	assert.Empty(t, assets[1].FolderID)

	err = m.MoveAssets(ctx, []string{"a2"}, "missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestMemory_DeleteFolder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	parent, err := m.CreateFolder(ctx, "Audio", "green", "")
	require.NoError(t, err)
	child, err := m.CreateFolder(ctx, "Music", "green", parent.ID)
	require.NoError(t, err)

	m.AddAssets(Asset{ID: "a1", Name: "bed.wav", Type: TypeAudio, FolderID: child.ID})

	require.NoError(t, m.DeleteFolder(ctx, child.ID, true))

	assets, err := m.ListAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, assets[0].FolderID, "asset re-homes to parent")

	folders, err := m.ListFolders(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 1)

	assert.ErrorIs(t, m.DeleteFolder(ctx, child.ID, true), ErrFolderNotFound)
}

func TestDepth(t *testing.T) {
	folders := []Folder{
		{ID: "root", Name: "Root"},
		{ID: "mid", Name: "Mid", ParentID: "root"},
		{ID: "leaf", Name: "Leaf", ParentID: "mid"},
		{ID: "orphan", Name: "Orphan", ParentID: "gone"},
		{ID: "self", Name: "Self", ParentID: "self"},
		{ID: "cyc_a", Name: "A", ParentID: "cyc_b"},
		{ID: "cyc_b", Name: "B", ParentID: "cyc_a"},
	}

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"root folder", "root", 1},
		{"child", "mid", 2},
		{"grandchild", "leaf", 3},
		{"missing parent collapses to root", "orphan", 1},
		{"self reference collapses to root", "self", 1},
		{"cycle collapses to root", "cyc_a", 1},
	}

	byID := map[string]Folder{}
	for _, f := range folders {
		byID[f.ID] = f
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Depth(byID[tt.id], folders))
		})
	}
}

func TestComputeHealth_Empty(t *testing.T) {
	h := ComputeHealth(nil, nil)
	assert.Equal(t, 100.0, h.OrganizationRate)
	assert.Equal(t, 100.0, h.NamingConsistency)
	assert.Equal(t, 0.0, h.DuplicateRisk)
	assert.Equal(t, 0.0, h.AverageFolderDepth)
}

func TestComputeHealth(t *testing.T) {
	folders := []Folder{
		{ID: "f1", Name: "Raw Footage"},
		{ID: "f2", Name: "Interviews", ParentID: "f1"},
	}
	assets := []Asset{
		{ID: "a1", Name: "Interview_01.mov", Type: TypeFootage, Size: 100, FolderID: "f2"},
		{ID: "a2", Name: "Interview_02.mov", Type: TypeFootage, Size: 200, FolderID: "f2"},
		{ID: "a3", Name: "Interview_03.mov", Type: TypeFootage, Size: 300},
		{ID: "a4", Name: "Interview_04.mov", Type: TypeFootage, Size: 400},
	}

	h := ComputeHealth(assets, folders)
	assert.Equal(t, 4, h.TotalAssets)
	assert.Equal(t, 2, h.UnorganizedAssets)
	assert.Equal(t, 50.0, h.OrganizationRate)
	assert.Equal(t, 1.5, h.AverageFolderDepth)
	assert.Greater(t, h.DuplicateRisk, 0.0, "same base name collides")
	assert.Greater(t, h.OverallScore, 0)
	assert.LessOrEqual(t, h.OverallScore, 100)
}

func TestSampleProject(t *testing.T) {
	ctx := context.Background()
	m := SampleProject()

	assets, err := m.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, 5)

	folders, err := m.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Raw Footage", folders[0].Name)
}
