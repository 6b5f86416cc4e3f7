package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gamehoard/gamehoard/internal/metadata"
	"github.com/gamehoard/gamehoard/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import <records.json>",
	Short: "Import reference records into the metadata catalog",
	Long: `Import reads a JSON array of game metadata records and upserts
them into the local catalog database used for identification.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read records file: %w", err)
	}

	var records []models.GameMetadata
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse records file: %w", err)
	}

	sqlite, ok := apiClient.Catalog.(*metadata.SQLiteCatalog)
	if !ok {
		return fmt.Errorf("catalog backend does not support import")
	}

	if err := sqlite.Import(context.Background(), records); err != nil {
		return fmt.Errorf("import records: %w", err)
	}

	fmt.Printf("Imported %d records\n", len(records))
	return nil
}
