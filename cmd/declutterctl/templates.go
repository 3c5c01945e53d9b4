package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

// templatesCmd groups template subcommands
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage organization templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long: `List built-in and user templates known to the daemon.

Examples:
  # List everything
  declutterctl templates list

  # Search by text
  declutterctl templates list --query wedding`,
	RunE: runTemplatesList,
}

var templatesApplyCmd = &cobra.Command{
	Use:   "apply <template-id>",
	Short: "Apply a template to the current project",
	Long: `Apply a template to every unorganized asset in the current
project.

Examples:
  declutterctl templates apply documentary`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesApply,
}

var templatesExportCmd = &cobra.Command{
	Use:   "export <template-id>",
	Short: "Export a template as JSON to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesExport,
}

var templatesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a template from a JSON file or stdin",
	Long: `Import a previously exported template.

Examples:
  # Import from a file
  declutterctl templates import wedding.json

  # Import from stdin
  cat wedding.json | declutterctl templates import -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplatesImport,
}

var templatesUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show template usage statistics",
	RunE:  runTemplatesUsage,
}

var templatesQuery string

func init() {
	templatesListCmd.Flags().StringVar(&templatesQuery, "query", "", "search text")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesApplyCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesImportCmd)
	templatesCmd.AddCommand(templatesUsageCmd)
}

// TemplateResponse mirrors internal/templates Template, trimmed to what
// the CLI prints.
type TemplateResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Folders     []struct {
		Name string `json:"name"`
	} `json:"folders"`
}

// ApplyResult mirrors internal/templates Result.
type ApplyResult struct {
	FoldersCreated int      `json:"foldersCreated"`
	AssetsMoved    int      `json:"assetsMoved"`
	Errors         []string `json:"errors"`
}

// UsageStatResponse mirrors internal/templates UsageStat.
type UsageStatResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	path := "/api/v1/templates"
	if templatesQuery != "" {
		path += "?q=" + templatesQuery
	}

	var list []TemplateResponse
	if err := getJSON(path, &list); err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No templates found.")
		return nil
	}
	for _, t := range list {
		fmt.Printf("%-24s %-10s %-12s %d folder(s)  %s\n",
			t.ID, t.Category, t.Author, len(t.Folders), t.Name)
	}
	return nil
}

func runTemplatesApply(cmd *cobra.Command, args []string) error {
	var result ApplyResult
	path := fmt.Sprintf("/api/v1/templates/%s/apply", args[0])
	if err := postJSON(path, bytes.NewReader([]byte(`{}`)), http.StatusOK, &result); err != nil {
		return err
	}

	fmt.Printf("Folders created: %d\n", result.FoldersCreated)
	fmt.Printf("Assets moved:    %d\n", result.AssetsMoved)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}
	return nil
}

func runTemplatesExport(cmd *cobra.Command, args []string) error {
	path := fmt.Sprintf("%s/api/v1/templates/%s/export", serverURL, args[0])
	resp, err := newClient().Get(path)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

func runTemplatesImport(cmd *cobra.Command, args []string) error {
	var payload []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		payload, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		payload, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	if len(payload) == 0 {
		return fmt.Errorf("no template data to import")
	}
	if !json.Valid(payload) {
		return fmt.Errorf("input is not valid JSON")
	}

	var imported TemplateResponse
	if err := postJSON("/api/v1/templates/import", bytes.NewReader(payload), http.StatusCreated, &imported); err != nil {
		return err
	}

	fmt.Printf("Imported template %q (%s)\n", imported.Name, imported.ID)
	return nil
}

func runTemplatesUsage(cmd *cobra.Command, args []string) error {
	var stats []UsageStatResponse
	if err := getJSON("/api/v1/templates/usage", &stats); err != nil {
		return err
	}

	if len(stats) == 0 {
		fmt.Println("No templates applied yet.")
		return nil
	}
	for _, s := range stats {
		fmt.Printf("%-24s %4d  %s\n", s.ID, s.UsageCount, s.Name)
	}
	return nil
}
