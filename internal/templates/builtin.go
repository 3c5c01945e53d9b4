package templates

import "time"

var builtinStamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// builtinTemplates returns the four shipped templates. Folder order
// matters: parents precede the children that reference them.
func builtinTemplates() []Template {
	return []Template{
		{
			ID:          "documentary",
			Name:        "Documentary",
			Description: "Standard structure for documentary projects",
			Category:    CategoryBuiltIn,
			Version:     "1.0",
			Author:      "Declutter",
			Created:     builtinStamp,
			Modified:    builtinStamp,
			Folders: []FolderDefinition{
				{
					Name: "Raw Footage", Color: "blue",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "footage"},
					},
				},
				{
					Name: "Interviews", Color: "red", Parent: "Raw Footage",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "interview"},
						{Type: FilterTag, Operator: OpContains, Value: "interview"},
					},
				},
				{
					Name: "B-Roll", Color: "blue", Parent: "Raw Footage",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "b-roll"},
						{Type: FilterName, Operator: OpContains, Value: "broll"},
						{Type: FilterTag, Operator: OpContains, Value: "b-roll"},
					},
				},
				{
					Name: "Archival", Color: "brown", Parent: "Raw Footage",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "archive"},
						{Type: FilterName, Operator: OpContains, Value: "historical"},
						{Type: FilterTag, Operator: OpContains, Value: "archival"},
					},
				},
				{
					Name: "Audio", Color: "green",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
					},
				},
				{
					Name: "Music", Color: "green", Parent: "Audio",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "music"},
						{Type: FilterName, Operator: OpContains, Value: "soundtrack"},
						{Type: FilterTag, Operator: OpContains, Value: "music"},
					},
				},
				{
					Name: "SFX", Color: "green", Parent: "Audio",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "sfx"},
						{Type: FilterName, Operator: OpContains, Value: "sound"},
						{Type: FilterTag, Operator: OpContains, Value: "sfx"},
					},
				},
			},
		},
		{
			ID:          "corporate",
			Name:        "Corporate Video",
			Description: "Professional structure for corporate videos",
			Category:    CategoryBuiltIn,
			Version:     "1.0",
			Author:      "Declutter",
			Created:     builtinStamp,
			Modified:    builtinStamp,
			Folders: []FolderDefinition{
				{
					Name: "Interviews", Color: "red",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "interview"},
						{Type: FilterName, Operator: OpContains, Value: "testimonial"},
						{Type: FilterName, Operator: OpContains, Value: "talking"},
					},
				},
				{
					Name: "Product Shots", Color: "yellow",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "product"},
						{Type: FilterName, Operator: OpContains, Value: "demo"},
						{Type: FilterTag, Operator: OpContains, Value: "product"},
					},
				},
				{
					Name: "Office B-Roll", Color: "blue",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "office"},
						{Type: FilterName, Operator: OpContains, Value: "workplace"},
						{Type: FilterName, Operator: OpContains, Value: "meeting"},
					},
				},
				{
					Name: "Graphics", Color: "orange",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "image"},
						{Type: FilterName, Operator: OpContains, Value: "logo"},
						{Type: FilterName, Operator: OpContains, Value: "graphic"},
					},
				},
				{
					Name: "Audio", Color: "green",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
					},
				},
			},
		},
		{
			ID:          "wedding",
			Name:        "Wedding",
			Description: "Romantic structure for wedding videos",
			Category:    CategoryBuiltIn,
			Version:     "1.0",
			Author:      "Declutter",
			Created:     builtinStamp,
			Modified:    builtinStamp,
			Folders: []FolderDefinition{
				{
					Name: "Ceremony", Color: "red",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "ceremony"},
						{Type: FilterName, Operator: OpContains, Value: "vows"},
						{Type: FilterName, Operator: OpContains, Value: "altar"},
					},
				},
				{
					Name: "Reception", Color: "yellow",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "reception"},
						{Type: FilterName, Operator: OpContains, Value: "party"},
						{Type: FilterName, Operator: OpContains, Value: "dance"},
					},
				},
				{
					Name: "Portraits", Color: "purple",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "portrait"},
						{Type: FilterName, Operator: OpContains, Value: "couple"},
						{Type: FilterName, Operator: OpContains, Value: "family"},
					},
				},
				{
					Name: "Details", Color: "orange",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "ring"},
						{Type: FilterName, Operator: OpContains, Value: "dress"},
						{Type: FilterName, Operator: OpContains, Value: "flowers"},
					},
				},
				{
					Name: "Audio", Color: "green",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
					},
				},
			},
		},
		{
			ID:          "music_video",
			Name:        "Music Video",
			Description: "Creative structure for music videos",
			Category:    CategoryBuiltIn,
			Version:     "1.0",
			Author:      "Declutter",
			Created:     builtinStamp,
			Modified:    builtinStamp,
			Folders: []FolderDefinition{
				{
					Name: "Performance", Color: "red",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "performance"},
						{Type: FilterName, Operator: OpContains, Value: "band"},
						{Type: FilterName, Operator: OpContains, Value: "singing"},
					},
				},
				{
					Name: "Narrative", Color: "blue",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "story"},
						{Type: FilterName, Operator: OpContains, Value: "narrative"},
						{Type: FilterName, Operator: OpContains, Value: "scene"},
					},
				},
				{
					Name: "Abstract", Color: "purple",
					Filters: []Filter{
						{Type: FilterName, Operator: OpContains, Value: "abstract"},
						{Type: FilterName, Operator: OpContains, Value: "artistic"},
						{Type: FilterName, Operator: OpContains, Value: "creative"},
					},
				},
				{
					Name: "Audio", Color: "green",
					Filters: []Filter{
						{Type: FilterAssetType, Operator: OpEqual, Value: "audio"},
					},
				},
			},
		},
	}
}
