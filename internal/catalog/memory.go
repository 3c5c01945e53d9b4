package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Catalog. It is the fixture catalog for tests and
// the backing store for the daemon's demo mode. Thread-safe.
type Memory struct {
	mu      sync.RWMutex
	assets  []Asset
	folders []Folder
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith creates an in-memory catalog pre-populated with the given
// assets and folders.
func NewMemoryWith(assets []Asset, folders []Folder) *Memory {
	m := &Memory{}
	m.assets = append(m.assets, assets...)
	m.folders = append(m.folders, folders...)
	return m
}

// ListAssets returns a copy of all assets.
func (m *Memory) ListAssets(ctx context.Context) ([]Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Asset, len(m.assets))
	copy(out, m.assets)
	return out, nil
}

// ListFolders returns a copy of all folders.
func (m *Memory) ListFolders(ctx context.Context) ([]Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Folder, len(m.folders))
	copy(out, m.folders)
	return out, nil
}

// CreateFolder creates a folder, rejecting case-insensitive name
// duplicates the way the host does.
func (m *Memory) CreateFolder(ctx context.Context, name, color, parentID string) (Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.folders {
		if strings.EqualFold(f.Name, name) {
			return Folder{}, fmt.Errorf("%q: %w", name, ErrDuplicateFolder)
		}
	}
	if parentID != "" && m.findFolder(parentID) == nil {
		return Folder{}, fmt.Errorf("parent %q: %w", parentID, ErrFolderNotFound)
	}

	f := Folder{
		ID:        "folder_" + uuid.NewString(),
		Name:      name,
		Color:     color,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	m.folders = append(m.folders, f)
	return f, nil
}

// MoveAssets moves assets into the given folder. Unknown asset ids are
// skipped so one stale id does not fail the batch.
func (m *Memory) MoveAssets(ctx context.Context, assetIDs []string, folderID string) error {
	if len(assetIDs) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findFolder(folderID) == nil {
		return fmt.Errorf("%q: %w", folderID, ErrFolderNotFound)
	}

	want := make(map[string]bool, len(assetIDs))
	for _, id := range assetIDs {
		want[id] = true
	}
	for i := range m.assets {
		if want[m.assets[i].ID] {
			m.assets[i].FolderID = folderID
		}
	}
	return nil
}

// RenameFolder renames an existing folder.
func (m *Memory) RenameFolder(ctx context.Context, folderID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.findFolder(folderID)
	if f == nil {
		return fmt.Errorf("%q: %w", folderID, ErrFolderNotFound)
	}
	f.Name = name
	return nil
}

// DeleteFolder removes a folder, re-homing its assets.
func (m *Memory) DeleteFolder(ctx context.Context, folderID string, reparentAssets bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, f := range m.folders {
		if f.ID == folderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%q: %w", folderID, ErrFolderNotFound)
	}

	parentID := ""
	if reparentAssets {
		parentID = m.folders[idx].ParentID
	}
	for i := range m.assets {
		if m.assets[i].FolderID == folderID {
			m.assets[i].FolderID = parentID
		}
	}
	m.folders = append(m.folders[:idx], m.folders[idx+1:]...)
	return nil
}

func (m *Memory) findFolder(id string) *Folder {
	for i := range m.folders {
		if m.folders[i].ID == id {
			return &m.folders[i]
		}
	}
	return nil
}

// AddAssets appends assets directly, bypassing the mutation API. Test and
// demo setup only.
func (m *Memory) AddAssets(assets ...Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = append(m.assets, assets...)
}

// AddFolders appends folders directly, bypassing duplicate checks. Test
// and demo setup only.
func (m *Memory) AddFolders(folders ...Folder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders = append(m.folders, folders...)
}

// SampleProject returns the demo documentary project: a handful of assets
// across all types plus one existing root folder.
func SampleProject() *Memory {
	mb := int64(1024 * 1024)
	m := NewMemory()
	m.AddFolders(Folder{
		ID: "folder_1", Name: "Raw Footage", Color: "blue", CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	m.AddAssets(
		Asset{
			ID: "asset_1", Name: "Interview_Subject_01.mov", Type: TypeFootage,
			Size: 1200 * mb, Duration: 932, Width: 1920, Height: 1080,
			Tags: []string{"interview", "4K", "primary"},
		},
		Asset{
			ID: "asset_2", Name: "B-Roll_City_Skyline.mov", Type: TypeFootage,
			Size: 800 * mb, Duration: 45, Width: 3840, Height: 2160,
			Tags: []string{"b-roll", "4K", "establishing"},
		},
		Asset{
			ID: "asset_3", Name: "Background_Music_01.wav", Type: TypeAudio,
			Size: 45 * mb, Duration: 180,
			Tags: []string{"music", "background", "emotional"},
		},
		Asset{
			ID: "asset_4", Name: "Logo_Animation.aep", Type: TypeComposition,
			Size: 2 * mb, Duration: 5, Width: 1920, Height: 1080,
			Tags: []string{"logo", "animation", "branding"},
		},
		Asset{
			ID: "asset_5", Name: "Title_Card_Template.psd", Type: TypeImage,
			Size: 15 * mb, Width: 1920, Height: 1080,
			Tags: []string{"title", "template", "graphics"},
		},
	)
	return m
}
