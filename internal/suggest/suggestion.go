// Package suggest produces organization suggestions from a classification
// and the current catalog state. Suggestions are ephemeral: they are
// recomputed per analysis and carry enough evidence (matching asset ids,
// concrete actions, offending patterns) to be reviewed without rerunning
// the analysis.
package suggest

import "github.com/declutterlabs/declutterd/internal/classify"

// Kind discriminates suggestion variants.
type Kind string

const (
	// KindCreateFolder proposes creating a folder and lists the assets
	// that would move into it.
	KindCreateFolder Kind = "create_folder"
	// KindNamingImprovement proposes convention fixes for inconsistent
	// asset naming.
	KindNamingImprovement Kind = "naming_improvement"
	// KindNamingCleanup points out redundant words repeated across most
	// asset names.
	KindNamingCleanup Kind = "naming_cleanup"
)

// Suggestion is a tagged union: Kind selects which payload pointer is set,
// and exactly one is non-nil. Confidence is a heuristic [0,1] score.
type Suggestion struct {
	Kind       Kind    `json:"kind"`
	Confidence float64 `json:"confidence"`

	CreateFolder      *CreateFolderPayload      `json:"create_folder,omitempty"`
	NamingImprovement *NamingImprovementPayload `json:"naming_improvement,omitempty"`
	NamingCleanup     *NamingCleanupPayload     `json:"naming_cleanup,omitempty"`
}

// CreateFolderPayload is the evidence for a folder-creation suggestion.
type CreateFolderPayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Color  string `json:"color"`

	// MatchingAssetIDs are the assets that back this suggestion, in
	// catalog order. Always a subset of the analyzed asset set.
	MatchingAssetIDs []string `json:"matching_asset_ids"`

	// Personalized marks suggestions derived from the learning store
	// rather than the static pattern library.
	Personalized bool `json:"personalized,omitempty"`
}

// NamingImprovementPayload lists remediation actions for mixed naming
// conventions.
type NamingImprovementPayload struct {
	Title   string   `json:"title"`
	Reason  string   `json:"reason"`
	Actions []string `json:"actions"`
}

// NamingCleanupPayload lists words repeated across most asset names.
type NamingCleanupPayload struct {
	Title    string                   `json:"title"`
	Reason   string                   `json:"reason"`
	Patterns []classify.RedundantWord `json:"patterns"`
}

// NewCreateFolder builds a folder-creation suggestion.
func NewCreateFolder(confidence float64, payload CreateFolderPayload) Suggestion {
	return Suggestion{
		Kind:         KindCreateFolder,
		Confidence:   confidence,
		CreateFolder: &payload,
	}
}

// NewNamingImprovement builds a naming-improvement suggestion.
func NewNamingImprovement(confidence float64, payload NamingImprovementPayload) Suggestion {
	return Suggestion{
		Kind:              KindNamingImprovement,
		Confidence:        confidence,
		NamingImprovement: &payload,
	}
}

// NewNamingCleanup builds a naming-cleanup suggestion.
func NewNamingCleanup(confidence float64, payload NamingCleanupPayload) Suggestion {
	return Suggestion{
		Kind:          KindNamingCleanup,
		Confidence:    confidence,
		NamingCleanup: &payload,
	}
}
