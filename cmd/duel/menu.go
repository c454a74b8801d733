package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/platform/tui"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a match picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a match.
Pause or finish a match and press B to return to the menu.
Tab opens the history of the rounds played since start.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select match
  Tab          - Round history (Tab again cycles the filter)
  Esc/B        - Back
  Q            - Quit

Examples:
  duel menu
  duel menu --fps 30`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store, err := storage.OpenMemory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open round history: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	if err := tui.RunSession(store, runtimeConfig(), tui.NewKeyMap(appConfig.Keys)); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
