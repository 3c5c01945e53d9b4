// Package patterns holds the static pattern library: named project
// archetypes (documentary, corporate, wedding, music video) with the
// folder/keyword pairs used to classify projects and seed suggestions.
// The library is immutable and loaded once per process.
package patterns

import (
	"strings"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

// FolderPattern pairs a suggested folder name with the keywords that pull
// assets into it.
type FolderPattern struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Archetype is one predefined project type.
type Archetype struct {
	// Key identifies the archetype ("documentary", "corporate", ...).
	Key string `json:"key"`

	// Folders are the folder/keyword pairs, in suggestion order.
	Folders []FolderPattern `json:"folders"`

	// BaselineConfidence is the archetype's prior in [0,1]. It reflects
	// how distinctive the archetype's keyword set is, not a probability.
	BaselineConfidence float64 `json:"baseline_confidence"`
}

// Library is an ordered, immutable set of archetypes. Order matters:
// classification ties break toward the earlier archetype.
type Library struct {
	archetypes []Archetype
	byKey      map[string]int
}

// NewLibrary builds a library from the given archetypes, preserving order.
func NewLibrary(archetypes []Archetype) *Library {
	l := &Library{
		archetypes: archetypes,
		byKey:      make(map[string]int, len(archetypes)),
	}
	for i, a := range archetypes {
		l.byKey[a.Key] = i
	}
	return l
}

// Default returns the built-in library.
func Default() *Library {
	return NewLibrary(builtinArchetypes())
}

// Archetypes returns the archetypes in declaration order.
func (l *Library) Archetypes() []Archetype {
	return l.archetypes
}

// Get returns the archetype with the given key.
func (l *Library) Get(key string) (Archetype, bool) {
	i, ok := l.byKey[key]
	if !ok {
		return Archetype{}, false
	}
	return l.archetypes[i], true
}

func builtinArchetypes() []Archetype {
	return []Archetype{
		{
			Key: "documentary",
			Folders: []FolderPattern{
				{Name: "Interviews", Keywords: []string{"interview", "subject", "talking", "head"}},
				{Name: "B-Roll", Keywords: []string{"b-roll", "broll", "cutaway", "establishing"}},
				{Name: "Archival", Keywords: []string{"archive", "historical", "old", "vintage"}},
				{Name: "Music", Keywords: []string{"music", "soundtrack", "score", "audio"}},
				{Name: "Graphics", Keywords: []string{"title", "graphic", "logo", "text"}},
			},
			BaselineConfidence: 0.9,
		},
		{
			Key: "corporate",
			Folders: []FolderPattern{
				{Name: "Talking Heads", Keywords: []string{"ceo", "executive", "interview", "testimonial"}},
				{Name: "Product Shots", Keywords: []string{"product", "demo", "showcase"}},
				{Name: "Office B-Roll", Keywords: []string{"office", "workplace", "meeting", "team"}},
				{Name: "Branding", Keywords: []string{"logo", "brand", "identity", "corporate"}},
				{Name: "Music & SFX", Keywords: []string{"music", "sound", "audio", "sfx"}},
			},
			BaselineConfidence: 0.85,
		},
		{
			Key: "wedding",
			Folders: []FolderPattern{
				{Name: "Ceremony", Keywords: []string{"ceremony", "vows", "altar", "church"}},
				{Name: "Reception", Keywords: []string{"reception", "party", "dance", "dinner"}},
				{Name: "Portraits", Keywords: []string{"portrait", "couple", "family", "group"}},
				{Name: "Details", Keywords: []string{"ring", "dress", "flowers", "decoration"}},
				{Name: "Music", Keywords: []string{"music", "song", "audio", "soundtrack"}},
			},
			BaselineConfidence: 0.8,
		},
		{
			Key: "music_video",
			Folders: []FolderPattern{
				{Name: "Performance", Keywords: []string{"performance", "band", "singing", "playing"}},
				{Name: "Narrative", Keywords: []string{"story", "narrative", "acting", "scene"}},
				{Name: "Abstract", Keywords: []string{"abstract", "artistic", "creative", "experimental"}},
				{Name: "Audio", Keywords: []string{"track", "music", "audio", "song"}},
				{Name: "Effects", Keywords: []string{"effect", "vfx", "motion", "graphics"}},
			},
			BaselineConfidence: 0.75,
		},
	}
}

// folderColors maps keyword fragments to folder colors. First substring
// match wins; order is meaningful.
var folderColors = []struct {
	fragment string
	color    string
}{
	{"video", "blue"},
	{"footage", "blue"},
	{"audio", "green"},
	{"music", "green"},
	{"image", "yellow"},
	{"graphics", "orange"},
	{"composition", "purple"},
	{"interview", "red"},
	{"b-roll", "blue"},
	{"archival", "brown"},
	{"title", "orange"},
	{"logo", "purple"},
}

// SuggestColor picks a folder color for a name or asset type. Defaults to
// blue when nothing matches.
func SuggestColor(name string) string {
	lower := strings.ToLower(name)
	for _, c := range folderColors {
		if strings.Contains(lower, c.fragment) {
			return c.color
		}
	}
	return "blue"
}

// typeFolderNames maps asset types to display folder names for generic
// suggestions.
var typeFolderNames = map[catalog.AssetType]string{
	catalog.TypeFootage:     "Video Footage",
	catalog.TypeAudio:       "Audio Files",
	catalog.TypeImage:       "Images",
	catalog.TypeComposition: "Compositions",
}

// TypeFolderName returns the display folder name for an asset type,
// falling back to the capitalized type.
func TypeFolderName(t catalog.AssetType) string {
	if name, ok := typeFolderNames[t]; ok {
		return name
	}
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
