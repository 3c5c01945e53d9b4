// Package main implements the declutterctl CLI for manual operations
// against a running declutterd daemon.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the declutterd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "declutterctl",
	Short: "CLI for declutterd daemon operations",
	Long: `declutterctl is a command-line interface for a running declutterd daemon.
It provides commands for analyzing the current project, inspecting project
health, and managing organization templates and learning data.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "declutterd server URL")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(learningCmd)
}

// healthCmd checks daemon health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check declutterd daemon health",
	Long: `Check the health status of the declutterd daemon.

Examples:
  # Check health
  declutterctl health

  # Check health on a different server
  declutterctl health --server http://localhost:8080`,
	RunE: runHealth,
}

// HealthResponse matches internal/httpapi/server.go HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	var resp HealthResponse
	if err := getJSON("/health", &resp); err != nil {
		return err
	}
	fmt.Printf("Server Status: %s\n", resp.Status)
	return nil
}

// newClient returns the HTTP client used for all daemon calls.
func newClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// getJSON performs a GET against the daemon and decodes the JSON
// response into out.
func getJSON(path string, out any) error {
	resp, err := newClient().Get(serverURL + path)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", serverURL+path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON performs a POST with a JSON body and decodes the response
// into out when out is non-nil.
func postJSON(path string, body io.Reader, wantStatus int, out any) error {
	req, err := http.NewRequest(http.MethodPost, serverURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := newClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", serverURL+path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, wantStatus); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkStatus turns a non-expected status into an error carrying the
// server's response body.
func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
}
