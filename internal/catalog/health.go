package catalog

import (
	"math"
	"regexp"
	"strings"
)

// Health summarizes how well organized a project is. Scores are heuristic
// 0-100 values, not probabilities.
type Health struct {
	TotalAssets       int     `json:"total_assets"`
	TotalFolders      int     `json:"total_folders"`
	UnorganizedAssets int     `json:"unorganized_assets"`

	// OrganizationRate is the percentage of assets inside a folder.
	OrganizationRate float64 `json:"organization_rate"`

	// AverageFolderDepth is the mean Depth over all folders.
	AverageFolderDepth float64 `json:"average_folder_depth"`

	// NamingConsistency penalizes name sets that mix conventions.
	NamingConsistency float64 `json:"naming_consistency"`

	// DuplicateRisk estimates how likely the project carries duplicate
	// media, from name and size collisions.
	DuplicateRisk float64 `json:"duplicate_risk"`

	// OverallScore is the weighted roll-up of the above.
	OverallScore int `json:"overall_score"`
}

var healthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`_`),
	regexp.MustCompile(`-`),
	regexp.MustCompile(`\s`),
	regexp.MustCompile(`^[A-Z]`),
	regexp.MustCompile(`^[a-z]`),
}

// ComputeHealth derives project health metrics from the current catalog
// contents.
func ComputeHealth(assets []Asset, folders []Folder) Health {
	h := Health{
		TotalAssets:       len(assets),
		TotalFolders:      len(folders),
		UnorganizedAssets: len(Unorganized(assets)),
	}

	if len(assets) > 0 {
		organized := len(assets) - h.UnorganizedAssets
		h.OrganizationRate = float64(organized) / float64(len(assets)) * 100
	} else {
		h.OrganizationRate = 100
	}

	h.AverageFolderDepth = averageDepth(folders)
	h.NamingConsistency = namingConsistency(assets)
	h.DuplicateRisk = duplicateRisk(assets)

	score := h.OrganizationRate * 0.4
	score += math.Min(h.NamingConsistency, 100) * 0.3
	score += math.Max(0, 100-h.DuplicateRisk) * 0.2
	score += math.Min(h.AverageFolderDepth*20, 100) * 0.1
	h.OverallScore = int(math.Round(score))

	return h
}

func averageDepth(folders []Folder) float64 {
	if len(folders) == 0 {
		return 0
	}
	byID := make(map[string]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	total := 0
	for _, f := range folders {
		total += depthFrom(f, byID)
	}
	return float64(total) / float64(len(folders))
}

// namingConsistency checks each convention independently: a convention
// that roughly everyone or roughly no one follows is consistent, one that
// splits the set costs 15 points.
func namingConsistency(assets []Asset) float64 {
	if len(assets) == 0 {
		return 100
	}
	score := 100.0
	for _, p := range healthPatterns {
		matches := 0
		for _, a := range assets {
			if p.MatchString(a.Name) {
				matches++
			}
		}
		ratio := float64(matches) / float64(len(assets))
		if ratio > 0.1 && ratio < 0.9 {
			score -= 15
		}
	}
	return math.Max(0, score)
}

var digitOrSepRe = regexp.MustCompile(`[\d_\-\s]+`)

func duplicateRisk(assets []Asset) float64 {
	if len(assets) == 0 {
		return 0
	}

	nameGroups := map[string]int{}
	sizeGroups := map[int64]int{}
	for _, a := range assets {
		base := digitOrSepRe.ReplaceAllString(strings.ToLower(a.Name), "")
		nameGroups[base]++
		sizeGroups[a.Size]++
	}

	conflicts := 0
	for _, n := range nameGroups {
		if n > 1 {
			conflicts++
		}
	}
	for _, n := range sizeGroups {
		if n > 1 {
			conflicts++
		}
	}

	risk := float64(conflicts) / float64(len(assets)) * 100
	return math.Min(100, risk)
}
