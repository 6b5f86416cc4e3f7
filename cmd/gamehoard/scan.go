package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gamehoard/gamehoard/internal/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan <root>",
	Short: "Scan a directory tree for games",
	Long: `Scan walks the tree under root, classifies every file, groups
multi-part archives, and emits confidence-scored game detections.`,
	Example: `  gamehoard scan /mnt/games
  gamehoard scan ~/Downloads --save
  gamehoard scan /mnt/games --json > detections.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var (
	scanJSON bool
	scanSave bool
)

const timeRounding = 10 * time.Millisecond

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false,
		"Emit raw JSON instead of a table")
	scanCmd.Flags().BoolVar(&scanSave, "save", false,
		"Fold detections into the persisted library")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := apiClient.Scan(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printScanResult(result)

	if scanSave {
		if err := apiClient.LoadLibrary(); err != nil {
			return err
		}
		for _, game := range result.Games {
			apiClient.Library.AddDetectedGame(models.GameSource{
				SourceID: game.ID,
				Detected: game,
			})
		}
		if err := apiClient.SaveLibrary(); err != nil {
			return err
		}
		fmt.Printf("\nSaved %d detections into library (%d games)\n",
			len(result.Games), apiClient.Library.Len())
	}

	return nil
}

func printScanResult(result *models.ScanResult) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	header.Printf("%-40s %-22s %-10s %s\n", "NAME", "TYPE", "CONF", "PATH")
	for _, game := range result.Games {
		fmt.Printf("%-40.40s %-22s %-10.2f %s\n",
			game.Name, game.Type, game.Confidence, game.Location.Path)
	}

	dim.Printf("\n%d games, %d files, %d directories in %s\n",
		len(result.Games), result.FilesScanned, result.DirectoriesScanned,
		result.Duration.Round(timeRounding))

	if len(result.Errors) > 0 {
		color.Yellow("%d path errors:", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s: %s\n", e.Path, e.Message)
		}
	}
}
