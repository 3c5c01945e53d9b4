package catalog

import (
	"context"
	"errors"
)

// Errors returned by catalog operations.
var (
	// ErrDuplicateFolder indicates a folder with the same name already
	// exists in the project.
	ErrDuplicateFolder = errors.New("folder with this name already exists")

	// ErrFolderNotFound indicates the referenced folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrAssetNotFound indicates the referenced asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")
)

// Catalog exposes the host project's assets and folders and accepts
// mutation requests. Mutations cross the host scripting boundary and are
// not guaranteed atomic; callers must tolerate partial failure.
type Catalog interface {
	// ListAssets returns all assets in the project, in host order.
	ListAssets(ctx context.Context) ([]Asset, error)

	// ListFolders returns all folders in the project, in host order.
	ListFolders(ctx context.Context) ([]Folder, error)

	// CreateFolder creates a folder. parentID may be empty for a root
	// folder. Fails with ErrDuplicateFolder when a folder with the same
	// name (case-insensitive) already exists.
	CreateFolder(ctx context.Context, name, color, parentID string) (Folder, error)

	// MoveAssets moves the listed assets into folderID. An empty id list
	// is a no-op. Unknown asset ids are skipped; moving into an unknown
	// folder fails with ErrFolderNotFound.
	MoveAssets(ctx context.Context, assetIDs []string, folderID string) error

	// RenameFolder renames an existing folder.
	RenameFolder(ctx context.Context, folderID, name string) error

	// DeleteFolder removes a folder. When reparentAssets is true, assets
	// inside the folder move to its parent (or become unorganized for a
	// root folder); otherwise they become unorganized.
	DeleteFolder(ctx context.Context, folderID string, reparentAssets bool) error
}

// maxDepthHops bounds parent-chain traversal so a corrupted folder tree
// cannot loop the engine.
const maxDepthHops = 64

// Depth returns the 1-based depth of the folder within the tree described
// by folders. A root folder has depth 1. An unresolvable parent id, a
// self-reference, or a cycle yields depth 1: the chain is broken, so the
// folder is treated as if it sat at the root.
func Depth(f Folder, folders []Folder) int {
	byID := make(map[string]Folder, len(folders))
	for _, fo := range folders {
		byID[fo.ID] = fo
	}
	return depthFrom(f, byID)
}

func depthFrom(f Folder, byID map[string]Folder) int {
	depth := 1
	seen := map[string]bool{f.ID: true}
	current := f
	for hops := 0; current.ParentID != "" && hops < maxDepthHops; hops++ {
		parent, ok := byID[current.ParentID]
		if !ok || seen[parent.ID] {
			return 1
		}
		seen[parent.ID] = true
		depth++
		current = parent
	}
	if current.ParentID != "" {
		// Chain longer than the hop bound is as good as a cycle.
		return 1
	}
	return depth
}

// Unorganized filters assets down to those not contained in any folder.
func Unorganized(assets []Asset) []Asset {
	var out []Asset
	for _, a := range assets {
		if !a.Organized() {
			out = append(out, a)
		}
	}
	return out
}

// ByType filters assets down to the given type.
func ByType(assets []Asset, t AssetType) []Asset {
	var out []Asset
	for _, a := range assets {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
