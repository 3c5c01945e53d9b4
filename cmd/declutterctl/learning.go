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

// learningCmd groups learning-data subcommands
var learningCmd = &cobra.Command{
	Use:   "learning",
	Short: "Manage learning data",
}

var learningExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export learning data as JSON to stdout",
	RunE:  runLearningExport,
}

var learningImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import learning data from a JSON file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLearningImport,
}

var learningResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all learning data",
	Long: `Clear recorded actions, folder patterns and analysis history.
This cannot be undone.`,
	RunE: runLearningReset,
}

func init() {
	learningCmd.AddCommand(learningExportCmd)
	learningCmd.AddCommand(learningImportCmd)
	learningCmd.AddCommand(learningResetCmd)
}

func runLearningExport(cmd *cobra.Command, args []string) error {
	path := serverURL + "/api/v1/learning/export"
	resp, err := newClient().Get(path)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("failed to write learning data: %w", err)
	}
	return nil
}

func runLearningImport(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no learning data to import")
	}
	if !json.Valid(payload) {
		return fmt.Errorf("input is not valid JSON")
	}

	if err := postJSON("/api/v1/learning/import", bytes.NewReader(payload), http.StatusNoContent, nil); err != nil {
		return err
	}
	fmt.Println("Learning data imported.")
	return nil
}

func runLearningReset(cmd *cobra.Command, args []string) error {
	if err := postJSON("/api/v1/learning/reset", nil, http.StatusNoContent, nil); err != nil {
		return err
	}
	fmt.Println("Learning data cleared.")
	return nil
}
