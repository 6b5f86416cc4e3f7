package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect and edit the unified game library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unified games",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.LoadLibrary(); err != nil {
			return err
		}

		games := apiClient.Library.List()
		if len(games) == 0 {
			fmt.Println("Library is empty. Run 'gamehoard scan --save' first.")
			return nil
		}

		header := color.New(color.FgCyan, color.Bold)
		header.Printf("%-36s %-40s %-12s %-9s %s\n", "ID", "TITLE", "PLATFORM", "INSTALLED", "SOURCES")

		for _, g := range games {
			if g.Hidden && !libraryAll {
				continue
			}
			installed := ""
			if g.IsInstalled {
				installed = "yes"
			}
			fmt.Printf("%-36s %-40.40s %-12s %-9s %d\n",
				g.ID, g.Title, g.Platform, installed, len(g.Sources))
		}

		return nil
	},
}

var libraryMergeCmd = &cobra.Command{
	Use:   "merge <into-id> <from-id>",
	Short: "Merge one unified game into another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.LoadLibrary(); err != nil {
			return err
		}

		if err := apiClient.Library.MergeGames(args[0], args[1]); err != nil {
			return err
		}

		if err := apiClient.SaveLibrary(); err != nil {
			return err
		}

		fmt.Printf("Merged %s into %s\n", args[1], args[0])
		return nil
	},
}

var librarySplitCmd = &cobra.Command{
	Use:   "split <game-id> <source-id>",
	Short: "Split a source out of a unified game",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.LoadLibrary(); err != nil {
			return err
		}

		game, err := apiClient.Library.SplitSource(args[0], args[1])
		if err != nil {
			return err
		}

		if err := apiClient.SaveLibrary(); err != nil {
			return err
		}

		fmt.Printf("Source %s now belongs to %s (%s)\n", args[1], game.ID, game.Title)
		return nil
	},
}

var libraryAll bool

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryMergeCmd)
	libraryCmd.AddCommand(librarySplitCmd)

	libraryListCmd.Flags().BoolVarP(&libraryAll, "all", "a", false,
		"Include hidden games")
}
