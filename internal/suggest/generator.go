package suggest

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/classify"
	"github.com/declutterlabs/declutterd/internal/patterns"
)

// Confidence levels for each suggestion source. Archetype-backed folders
// rank above type groupings, which rank above prefix groupings.
const (
	archetypeFolderConfidence = 0.8
	typeFolderConfidence      = 0.7
	prefixFolderConfidence    = 0.6
	namingFixConfidence       = 0.8
	namingCleanupConfidence   = 0.7
)

// minGroupSize is the smallest asset group worth a generic folder
// suggestion: strictly more than two assets.
const minGroupSize = 2

// consistencyThreshold is the naming score below which a naming
// improvement suggestion is emitted.
const consistencyThreshold = 70

// Generator derives suggestions from classifications and catalog state.
type Generator struct {
	library *patterns.Library
	logger  *zap.Logger
}

// NewGenerator creates a generator over the given pattern library.
func NewGenerator(library *patterns.Library, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{library: library, logger: logger}
}

// Suggest produces the ordered suggestion list for one analysis pass:
// archetype folder suggestions when the classification matched, generic
// type/prefix suggestions otherwise, always followed by naming
// suggestions. Never fails; empty input yields an empty list.
func (g *Generator) Suggest(assets []catalog.Asset, existing []catalog.Folder, cls classify.Classification) []Suggestion {
	var out []Suggestion

	if !cls.Unknown() {
		if arch, ok := g.library.Get(cls.ArchetypeKey); ok {
			out = append(out, g.archetypeFolders(assets, existing, arch)...)
		}
	} else {
		out = append(out, g.genericFolders(assets, existing)...)
	}

	out = append(out, g.namingSuggestions(assets)...)

	g.logger.Debug("generated suggestions",
		zap.String("archetype", cls.ArchetypeKey),
		zap.Int("asset_count", len(assets)),
		zap.Int("suggestion_count", len(out)),
	)
	return out
}

// archetypeFolders proposes the matched archetype's folders, skipping ones
// that already exist and ones no asset matches.
func (g *Generator) archetypeFolders(assets []catalog.Asset, existing []catalog.Folder, arch patterns.Archetype) []Suggestion {
	existingNames := folderNameSet(existing)

	var out []Suggestion
	for _, fp := range arch.Folders {
		if existingNames[strings.ToLower(fp.Name)] {
			continue
		}

		var matching []string
		for _, a := range assets {
			if matchesAnyKeyword(a, fp.Keywords) {
				matching = append(matching, a.ID)
			}
		}
		if len(matching) == 0 {
			continue
		}

		out = append(out, NewCreateFolder(archetypeFolderConfidence, CreateFolderPayload{
			Name:             fp.Name,
			Reason:           fmt.Sprintf("Found %d assets that match %q criteria", len(matching), fp.Name),
			Color:            patterns.SuggestColor(fp.Name),
			MatchingAssetIDs: matching,
		}))
	}
	return out
}

// genericFolders proposes folders by asset type and by shared name prefix
// when no archetype matched.
func (g *Generator) genericFolders(assets []catalog.Asset, existing []catalog.Folder) []Suggestion {
	existingNames := folderNameSet(existing)
	breakdown := classify.AnalyzeTypes(assets)

	var out []Suggestion
	for _, t := range catalog.AssetTypes() {
		if t == catalog.TypeOther || breakdown.Counts[t] <= minGroupSize {
			continue
		}
		name := patterns.TypeFolderName(t)
		if existingNames[strings.ToLower(name)] {
			continue
		}

		var matching []string
		for _, a := range assets {
			if a.Type == t {
				matching = append(matching, a.ID)
			}
		}
		out = append(out, NewCreateFolder(typeFolderConfidence, CreateFolderPayload{
			Name:             name,
			Reason:           fmt.Sprintf("Organize %d %s assets", len(matching), t),
			Color:            patterns.SuggestColor(string(t)),
			MatchingAssetIDs: matching,
		}))
	}

	naming := classify.AnalyzeNaming(assets)
	for _, prefix := range naming.CommonPrefixes {
		if prefix.Count <= minGroupSize || existingNames[strings.ToLower(prefix.Token)] {
			continue
		}

		lowerPrefix := strings.ToLower(prefix.Token)
		var matching []string
		for _, a := range assets {
			if strings.HasPrefix(strings.ToLower(a.Name), lowerPrefix) {
				matching = append(matching, a.ID)
			}
		}
		out = append(out, NewCreateFolder(prefixFolderConfidence, CreateFolderPayload{
			Name:             formatFolderName(prefix.Token),
			Reason:           fmt.Sprintf("Group %d assets with %q prefix", prefix.Count, prefix.Token),
			Color:            "blue",
			MatchingAssetIDs: matching,
		}))
	}

	return out
}

// namingSuggestions appends convention and redundancy findings regardless
// of classification outcome.
func (g *Generator) namingSuggestions(assets []catalog.Asset) []Suggestion {
	var out []Suggestion

	naming := classify.AnalyzeNaming(assets)
	if len(assets) > 0 && naming.ConsistencyScore < consistencyThreshold {
		out = append(out, NewNamingImprovement(namingFixConfidence, NamingImprovementPayload{
			Title:  "Improve Naming Consistency",
			Reason: "Inconsistent naming patterns detected",
			Actions: []string{
				"Consider using a consistent separator (underscores, hyphens, or spaces)",
				"Standardize capitalization (Title Case, camelCase, or lowercase)",
				"Use consistent numbering format (01, 02, 03 vs 1, 2, 3)",
			},
		}))
	}

	if redundant := classify.FindRedundantWords(assets); len(redundant) > 0 {
		out = append(out, NewNamingCleanup(namingCleanupConfidence, NamingCleanupPayload{
			Title:    "Remove Redundant Information",
			Reason:   "Found repeated information in asset names",
			Patterns: redundant,
		}))
	}

	return out
}

// matchesAnyKeyword applies the engine's only normalization rule:
// lowercase both sides, then substring-match against the name or exact
// match against the tag set.
func matchesAnyKeyword(a catalog.Asset, keywords []string) bool {
	name := strings.ToLower(a.Name)
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
		if a.HasTag(kw) {
			return true
		}
	}
	return false
}

func folderNameSet(folders []catalog.Folder) map[string]bool {
	set := make(map[string]bool, len(folders))
	for _, f := range folders {
		set[strings.ToLower(f.Name)] = true
	}
	return set
}

// formatFolderName turns a raw prefix token into a display name: split on
// separators, capitalize each word.
func formatFolderName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '\t'
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}
