package catalog

import (
	"strings"
	"time"
)

// AssetType classifies a media item tracked by the host project.
type AssetType string

const (
	// TypeFootage is video footage.
	TypeFootage AssetType = "footage"
	// TypeAudio is an audio file.
	TypeAudio AssetType = "audio"
	// TypeImage is a still image.
	TypeImage AssetType = "image"
	// TypeComposition is a host-application composition.
	TypeComposition AssetType = "composition"
	// TypeOther is anything the host cannot classify.
	TypeOther AssetType = "other"
)

// AssetTypes lists all known asset types in a stable order.
func AssetTypes() []AssetType {
	return []AssetType{TypeFootage, TypeAudio, TypeImage, TypeComposition, TypeOther}
}

// Asset is a media item in the host project. Assets are immutable except
// for FolderID, which changes only through Catalog.MoveAssets.
type Asset struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type AssetType `json:"type"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Duration is the media duration in seconds. Zero means the asset has
	// no duration (stills) or the host did not report one; duration
	// filters never match such assets.
	Duration float64 `json:"duration,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// FolderID is the containing folder, or empty for unorganized assets.
	FolderID string `json:"folder_id,omitempty"`

	CreatedAt  time.Time `json:"created_at,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// Organized reports whether the asset sits inside a folder.
func (a Asset) Organized() bool {
	return a.FolderID != ""
}

// HasTag reports whether the asset carries the given tag, compared
// case-insensitively.
func (a Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Folder is a project folder. Folders form a tree through ParentID, but
// the host does not guarantee the tree is well formed; consumers must
// bound parent-chain traversals (see Depth).
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
