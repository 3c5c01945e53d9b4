package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

func userTemplate(name string, defs ...FolderDefinition) *Template {
	return &Template{
		ID:       "template_test",
		Name:     name,
		Category: CategoryUser,
		Folders:  defs,
	}
}

func folderByName(t *testing.T, cat catalog.Catalog, name string) catalog.Folder {
	t.Helper()
	folders, err := cat.ListFolders(context.Background())
	require.NoError(t, err)
	for _, f := range folders {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("folder %q not found", name)
	return catalog.Folder{}
}

func assetByID(t *testing.T, cat catalog.Catalog, id string) catalog.Asset {
	t.Helper()
	assets, err := cat.ListAssets(context.Background())
	require.NoError(t, err)
	for _, a := range assets {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("asset %q not found", id)
	return catalog.Asset{}
}

func TestEngine_Apply(t *testing.T) {
	cat := catalog.NewMemory()
	cat.AddAssets(
		catalog.Asset{ID: "a1", Name: "Interview_01.mov", Type: catalog.TypeFootage},
		catalog.Asset{ID: "a2", Name: "Music_Bed.wav", Type: catalog.TypeAudio},
		catalog.Asset{ID: "a3", Name: "notes.txt", Type: catalog.TypeOther},
	)
	tpl := userTemplate("Basic",
		FolderDefinition{Name: "Footage", Color: "blue", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "footage"},
		}},
		FolderDefinition{Name: "Audio", Color: "green", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
		}},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FoldersCreated)
	assert.Equal(t, 2, result.AssetsMoved)
	assert.Empty(t, result.Errors)

	footage := folderByName(t, cat, "Footage")
	audio := folderByName(t, cat, "Audio")
	assert.Equal(t, footage.ID, assetByID(t, cat, "a1").FolderID)
	assert.Equal(t, audio.ID, assetByID(t, cat, "a2").FolderID)
	assert.Empty(t, assetByID(t, cat, "a3").FolderID)
}

// A failed folder creation appends one error and does not stop later
// definitions from creating folders and moving assets.
func TestEngine_Apply_PartialFailure(t *testing.T) {
	cat := catalog.NewMemory()
	cat.AddAssets(
		catalog.Asset{ID: "a1", Name: "clip.mov", Type: catalog.TypeFootage},
		catalog.Asset{ID: "a2", Name: "bed.wav", Type: catalog.TypeAudio},
	)
	cat.AddFolders(catalog.Folder{ID: "f_existing", Name: "Audio"})
	tpl := userTemplate("Partial",
		FolderDefinition{Name: "Footage", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "footage"},
		}},
		FolderDefinition{Name: "Audio", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
		}},
		FolderDefinition{Name: "Loose Audio", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
		}},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FoldersCreated)
	assert.Equal(t, 2, result.AssetsMoved)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `Failed to create folder "Audio"`)

	loose := folderByName(t, cat, "Loose Audio")
	assert.Equal(t, loose.ID, assetByID(t, cat, "a2").FolderID)
}

// The asset pool is captured before the first definition, so an asset
// moved by an early definition stays eligible for a later one and ends
// up in the last folder that claims it. Each move still counts.
func TestEngine_Apply_PoolSnapshot(t *testing.T) {
	cat := catalog.NewMemory()
	cat.AddAssets(
		catalog.Asset{ID: "a1", Name: "Interview_Music.mov", Type: catalog.TypeFootage},
	)
	tpl := userTemplate("Overlap",
		FolderDefinition{Name: "Interviews", Filters: []Filter{
			{Type: FilterName, Operator: OpContains, Value: "interview"},
		}},
		FolderDefinition{Name: "Music", Filters: []Filter{
			{Type: FilterName, Operator: OpContains, Value: "music"},
		}},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AssetsMoved)
	music := folderByName(t, cat, "Music")
	assert.Equal(t, music.ID, assetByID(t, cat, "a1").FolderID)
}

// The pool snapshot also means an asset organized mid-run is not
// re-listed: only assets unorganized at the start participate at all.
func TestEngine_Apply_NilPoolIsUnorganizedAtStart(t *testing.T) {
	cat := catalog.NewMemory()
	cat.AddFolders(catalog.Folder{ID: "f_done", Name: "Done"})
	cat.AddAssets(
		catalog.Asset{ID: "a1", Name: "organized.wav", Type: catalog.TypeAudio, FolderID: "f_done"},
		catalog.Asset{ID: "a2", Name: "loose.wav", Type: catalog.TypeAudio},
	)
	tpl := userTemplate("Audio only",
		FolderDefinition{Name: "Audio", Filters: []Filter{
			{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
		}},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssetsMoved)
	assert.Equal(t, "f_done", assetByID(t, cat, "a1").FolderID)
}

func TestEngine_Apply_ParentResolution(t *testing.T) {
	cat := catalog.NewMemory()
	tpl := userTemplate("Nested",
		FolderDefinition{Name: "Raw Footage", Color: "blue"},
		FolderDefinition{Name: "Interviews", Color: "red", Parent: "Raw Footage"},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FoldersCreated)
	assert.Empty(t, result.Errors)

	raw := folderByName(t, cat, "Raw Footage")
	interviews := folderByName(t, cat, "Interviews")
	assert.Equal(t, raw.ID, interviews.ParentID)
}

// Parent references resolve only against folders created in this same
// run; a dangling reference lands the folder at the root with an error.
func TestEngine_Apply_UnresolvedParent(t *testing.T) {
	cat := catalog.NewMemory()
	tpl := userTemplate("Dangling",
		FolderDefinition{Name: "Interviews", Parent: "Raw Footage"},
	)

	result, err := NewEngine(cat, nil).Apply(context.Background(), tpl, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FoldersCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `Parent folder "Raw Footage" not found`)
	assert.Empty(t, folderByName(t, cat, "Interviews").ParentID)
}

func TestEngine_Apply_InvalidTemplate(t *testing.T) {
	cat := catalog.NewMemory()
	engine := NewEngine(cat, nil)

	_, err := engine.Apply(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = engine.Apply(context.Background(), &Template{}, nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	folders, listErr := cat.ListFolders(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, folders)
}

func TestEngine_Apply_BuiltInDocumentary(t *testing.T) {
	cat := catalog.NewMemory()
	cat.AddAssets(
		catalog.Asset{ID: "a1", Name: "Interview_01.mov", Type: catalog.TypeFootage, Tags: []string{"interview"}},
		catalog.Asset{ID: "a2", Name: "BRoll_Skyline.mov", Type: catalog.TypeFootage, Tags: []string{"b-roll"}},
		catalog.Asset{ID: "a3", Name: "Music_Bed.wav", Type: catalog.TypeAudio},
	)
	store := NewStore(nil, nil)
	tpl, err := store.Get("documentary")
	require.NoError(t, err)

	result, applyErr := NewEngine(cat, nil).Apply(context.Background(), &tpl, nil)
	require.NoError(t, applyErr)

	assert.Equal(t, len(tpl.Folders), result.FoldersCreated)
	assert.Empty(t, result.Errors)

	raw := folderByName(t, cat, "Raw Footage")
	assert.Equal(t, raw.ID, folderByName(t, cat, "Interviews").ParentID)
	assert.Equal(t, raw.ID, folderByName(t, cat, "B-Roll").ParentID)

	// Each footage asset is claimed first by Raw Footage, then by its
	// specific subfolder later in declaration order.
	assert.Equal(t, folderByName(t, cat, "Interviews").ID, assetByID(t, cat, "a1").FolderID)
	assert.Equal(t, folderByName(t, cat, "B-Roll").ID, assetByID(t, cat, "a2").FolderID)
	assert.Equal(t, folderByName(t, cat, "Music").ID, assetByID(t, cat, "a3").FolderID)
}
