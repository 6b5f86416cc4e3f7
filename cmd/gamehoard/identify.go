package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/services/identify"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <root>",
	Short: "Scan a tree and match detections against the metadata catalog",
	Long: `Identify runs a scan, then resolves each detection against the
reference catalog. Detections below the confidence threshold are
reported as unidentified, never guessed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentify,
}

var identifySave bool

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().BoolVar(&identifySave, "save", false,
		"Fold detections and identifications into the persisted library")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := apiClient.Scan(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	identified, err := apiClient.Identify.IdentifyAll(ctx, result.Games)
	if err != nil {
		return fmt.Errorf("identification failed: %w", err)
	}

	printIdentified(identified)

	if identifySave {
		return saveIdentified(identified)
	}

	return nil
}

func printIdentified(identified []models.IdentifiedGame) {
	matched := 0

	for _, ig := range identified {
		if ig.Metadata != nil {
			matched++
			color.Green("✓ %-40.40s -> %s [%s] (%.2f)",
				ig.Detected.Name, ig.Metadata.Title, ig.Metadata.Platform, ig.MatchConfidence)
		} else {
			color.Yellow("? %-40.40s unidentified", ig.Detected.Name)
		}
	}

	fmt.Printf("\n%d of %d detections identified\n", matched, len(identified))
}

func saveIdentified(identified []models.IdentifiedGame) error {
	if err := apiClient.LoadLibrary(); err != nil {
		return err
	}

	for _, ig := range identified {
		game := apiClient.Library.AddDetectedGame(models.GameSource{
			SourceID: ig.Detected.ID,
			Detected: ig.Detected,
		})

		if ig.Metadata != nil {
			err := apiClient.Library.AddIdentification(game.ID, ig.Identifier,
				identify.ToIdentification(ig))
			if err != nil {
				return err
			}
		}
	}

	if err := apiClient.SaveLibrary(); err != nil {
		return err
	}

	fmt.Printf("Library now holds %d games\n", apiClient.Library.Len())
	return nil
}
