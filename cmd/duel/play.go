package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/platform/tui"
	"github.com/vovakirdan/tetris-duel/internal/registry"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [match]",
	Short: "Play a match",
	Long: `Start a match. Without an argument you play against the CPU;
'demo' lets two CPU planners play each other.

Default controls (remap them under keys: in duel.yaml):
  Left/A/H       - Move left
  Right/D/L      - Move right
  Down/S/J       - Move down one row
  Up/W/K/Space   - Rotate clockwise
  P              - Pause both boards
  R              - Restart the match
  Ctrl+S         - Save a text screenshot
  Q/Esc/Ctrl+C   - Quit

Examples:
  duel play
  duel play demo
  duel play --seed 42 --fps 30
  duel play --config ./my-duel.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "duel"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown match %q, run 'duel list' to see available matches", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	// History lasts as long as this process.
	store, err := storage.OpenMemory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open round history: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	appLogger.Info("starting match", "id", gameID, "title", registry.Title(gameID))
	runErr := tui.Run(game, store, runtimeConfig(), tui.NewKeyMap(appConfig.Keys))

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("running match: %w", runErr)
	}
	return nil
}
