package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// analyzeCmd runs a project analysis on the daemon
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the current project",
	Long: `Analyze the daemon's current project and print the detected
project type plus organization suggestions.

Examples:
  # Analyze the current project
  declutterctl analyze`,
	RunE: runAnalyze,
}

// projectCmd groups project inspection subcommands
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect the current project",
}

var projectHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show project organization health",
	RunE:  runProjectHealth,
}

func init() {
	projectCmd.AddCommand(projectHealthCmd)
}

// AnalyzeResponse mirrors internal/organizer Analysis, trimmed to what
// the CLI prints.
type AnalyzeResponse struct {
	Classification struct {
		ArchetypeKey string  `json:"archetype_key"`
		Confidence   float64 `json:"confidence"`
	} `json:"classification"`
	Suggestions []SuggestionResponse `json:"suggestions"`
	AssetCount  int                  `json:"asset_count"`
}

// SuggestionResponse mirrors internal/suggest Suggestion.
type SuggestionResponse struct {
	Kind         string  `json:"kind"`
	Confidence   float64 `json:"confidence"`
	CreateFolder *struct {
		Name   string `json:"name"`
		Reason string `json:"reason"`
	} `json:"create_folder,omitempty"`
	NamingImprovement *struct {
		Title   string   `json:"title"`
		Actions []string `json:"actions"`
	} `json:"naming_improvement,omitempty"`
	NamingCleanup *struct {
		Title string `json:"title"`
	} `json:"naming_cleanup,omitempty"`
}

// HealthResult mirrors internal/catalog Health.
type HealthResult struct {
	TotalAssets       int     `json:"total_assets"`
	TotalFolders      int     `json:"total_folders"`
	UnorganizedAssets int     `json:"unorganized_assets"`
	OrganizationRate  float64 `json:"organization_rate"`
	NamingConsistency float64 `json:"naming_consistency"`
	OverallScore      int     `json:"overall_score"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var resp AnalyzeResponse
	if err := postJSON("/api/v1/analyze", nil, 200, &resp); err != nil {
		return err
	}

	fmt.Printf("Project Type: %s (%.0f%% confidence)\n",
		resp.Classification.ArchetypeKey, resp.Classification.Confidence*100)
	fmt.Printf("Assets:       %d\n", resp.AssetCount)

	if len(resp.Suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	fmt.Printf("\nSuggestions (%d):\n", len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		fmt.Printf("  - %s\n", describeSuggestion(s))
	}
	return nil
}

func describeSuggestion(s SuggestionResponse) string {
	switch {
	case s.CreateFolder != nil:
		return fmt.Sprintf("[%.0f%%] Create folder %q: %s",
			s.Confidence*100, s.CreateFolder.Name, s.CreateFolder.Reason)
	case s.NamingImprovement != nil:
		return fmt.Sprintf("[%.0f%%] %s (%s)",
			s.Confidence*100, s.NamingImprovement.Title,
			strings.Join(s.NamingImprovement.Actions, "; "))
	case s.NamingCleanup != nil:
		return fmt.Sprintf("[%.0f%%] %s", s.Confidence*100, s.NamingCleanup.Title)
	default:
		return fmt.Sprintf("[%.0f%%] %s", s.Confidence*100, s.Kind)
	}
}

func runProjectHealth(cmd *cobra.Command, args []string) error {
	var health HealthResult
	if err := getJSON("/api/v1/project/health", &health); err != nil {
		return err
	}

	fmt.Printf("Overall Score:      %d/100\n", health.OverallScore)
	fmt.Printf("Assets:             %d (%d unorganized)\n", health.TotalAssets, health.UnorganizedAssets)
	fmt.Printf("Folders:            %d\n", health.TotalFolders)
	fmt.Printf("Organization Rate:  %.1f%%\n", health.OrganizationRate)
	fmt.Printf("Naming Consistency: %.1f%%\n", health.NamingConsistency)
	return nil
}
