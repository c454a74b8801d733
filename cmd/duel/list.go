package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/platform/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all match types",
	Long:  `Shows the match types that can be played or watched.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	items := tui.MenuItems()

	if len(items) == 0 {
		fmt.Println("No matches available.")
		return
	}

	fmt.Println("Available matches:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, it := range items {
		maxIDLen = max(maxIDLen, len(it.GameID))
		maxTitleLen = max(maxTitleLen, len(it.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Mode")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----")

	for _, it := range items {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, it.GameID, maxTitleLen, it.Title, it.Mode)
	}

	fmt.Println()
	fmt.Println("Run 'duel play <id>' to start a match.")
}
