// Package classify scores a project's assets against the pattern library
// to infer a project type, and analyzes asset naming conventions. All
// functions are pure: they never touch the catalog and never fail, they
// degrade to "unknown" on empty input.
package classify

import (
	"math"
	"strings"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/patterns"
)

// ArchetypeUnknown is the classification result when no archetype clears
// the confidence floor.
const ArchetypeUnknown = "unknown"

// confidenceFloor is the minimum confidence for a classification to name
// an archetype. Strictly greater-than: exactly 0.3 stays unknown.
const confidenceFloor = 0.3

// Classification is the result of scoring assets against the library.
type Classification struct {
	// ArchetypeKey is the best matching archetype, or ArchetypeUnknown.
	ArchetypeKey string `json:"archetype_key"`

	// Confidence is min(bestScore/(assetCount*2), 1); 0 for empty input.
	Confidence float64 `json:"confidence"`

	// Scores carries the raw per-archetype scores for review.
	Scores map[string]int `json:"scores"`
}

// Unknown reports whether no archetype cleared the floor.
func (c Classification) Unknown() bool {
	return c.ArchetypeKey == ArchetypeUnknown
}

// Classifier scores asset collections against a pattern library.
type Classifier struct {
	library *patterns.Library
}

// New creates a classifier over the given library.
func New(library *patterns.Library) *Classifier {
	return &Classifier{library: library}
}

// Classify scores every archetype against the assets. A keyword substring
// match in an asset's lowercased name scores 2, an exact match in its
// lowercased tag set scores 1. The best raw score wins; ties break toward
// the archetype declared first because the comparison is strict.
func (c *Classifier) Classify(assets []catalog.Asset) Classification {
	archetypes := c.library.Archetypes()
	scores := make(map[string]int, len(archetypes))
	for _, a := range archetypes {
		scores[a.Key] = 0
	}

	for _, asset := range assets {
		name := strings.ToLower(asset.Name)
		tags := lowerSet(asset.Tags)

		for _, arch := range archetypes {
			score := 0
			for _, folder := range arch.Folders {
				for _, kw := range folder.Keywords {
					if strings.Contains(name, kw) {
						score += 2
					}
					if tags[kw] {
						score++
					}
				}
			}
			scores[arch.Key] += score
		}
	}

	bestKey := ArchetypeUnknown
	bestScore := 0
	for _, arch := range archetypes {
		if scores[arch.Key] > bestScore {
			bestScore = scores[arch.Key]
			bestKey = arch.Key
		}
	}

	confidence := 0.0
	if len(assets) > 0 {
		confidence = math.Min(float64(bestScore)/float64(len(assets)*2), 1)
	}
	if confidence <= confidenceFloor {
		bestKey = ArchetypeUnknown
	}

	return Classification{
		ArchetypeKey: bestKey,
		Confidence:   confidence,
		Scores:       scores,
	}
}

// Breakdown tallies assets per type.
type Breakdown struct {
	Counts      map[catalog.AssetType]int     `json:"counts"`
	Percentages map[catalog.AssetType]float64 `json:"percentages"`
	Total       int                           `json:"total"`
}

// AnalyzeTypes computes the asset-type distribution. Types outside the
// known set count as TypeOther.
func AnalyzeTypes(assets []catalog.Asset) Breakdown {
	b := Breakdown{
		Counts:      map[catalog.AssetType]int{},
		Percentages: map[catalog.AssetType]float64{},
		Total:       len(assets),
	}
	known := map[catalog.AssetType]bool{}
	for _, t := range catalog.AssetTypes() {
		known[t] = true
		b.Counts[t] = 0
	}

	for _, a := range assets {
		if known[a.Type] {
			b.Counts[a.Type]++
		} else {
			b.Counts[catalog.TypeOther]++
		}
	}
	for t, n := range b.Counts {
		if b.Total > 0 {
			b.Percentages[t] = float64(n) / float64(b.Total) * 100
		} else {
			b.Percentages[t] = 0
		}
	}
	return b
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
