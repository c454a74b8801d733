package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/duel"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

var (
	flagRounds   int
	flagMaxTicks int
	flagShow     bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run CPU vs CPU rounds without a terminal",
	Long: `Run demo matches headless, as fast as the CPU allows, and print one line
per round followed by the standings. Rounds use consecutive seeds starting at
--seed, so a run can be reproduced exactly.

A round ends when a board tops out or after --max-ticks frames.

Examples:
  duel sim
  duel sim --rounds 20 --seed 1
  duel sim --rounds 1 --show --log-level debug`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagRounds, "rounds", 3, "Number of rounds to play")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 36000, "Frame cap per round (0 = no cap)")
	simCmd.Flags().BoolVar(&flagShow, "show", false, "Print the final boards of every round")
}

func runSim(cmd *cobra.Command, _ []string) error {
	if flagRounds <= 0 {
		return fmt.Errorf("--rounds must be positive, got %d", flagRounds)
	}

	store, err := storage.OpenMemory()
	if err != nil {
		return err
	}
	defer store.Close()

	seed := appConfig.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	out := cmd.OutOrStdout()
	for i := range flagRounds {
		game := duel.NewDemo()
		o := simulate(game, seed+int64(i), appConfig.Runtime.TickRate, flagMaxTicks)
		if _, err := store.SaveRound(o); err != nil {
			return err
		}
		printRound(out, i+1, o)
		if flagShow {
			screen := core.NewScreen(duel.MinWidth, duel.MinHeight)
			game.Render(screen)
			fmt.Fprintln(out, screen.String())
		}
	}

	st, err := store.Standings(multiplayer.MatchModeCPUvsCPU)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Standings: P1 won %d, P2 won %d, %d drawn, best P1 score %d\n",
		st.Wins, st.Losses, st.Draws, st.Best)
	return nil
}

// simulate steps a match with no input until it ends or hits maxTicks.
func simulate(game *duel.Game, seed int64, tickRate, maxTicks int) duel.Outcome {
	game.Reset(core.RuntimeConfig{
		ScreenW:  duel.MinWidth,
		ScreenH:  duel.MinHeight,
		TickRate: tickRate,
		Seed:     seed,
	})

	in := core.NewInputFrame()
	for frames := 0; !game.Over(); frames++ {
		if maxTicks > 0 && frames >= maxTicks {
			game.Stop(multiplayer.EndReasonTickLimit)
			break
		}
		game.Step(in)
	}

	o, _ := game.Result()
	return o
}

func printRound(w io.Writer, n int, o duel.Outcome) {
	winner := "draw"
	if !o.Draw() {
		winner = o.Winner.String()
	}
	fmt.Fprintf(w, "round %d  %s  %-4s  score %d-%d  lines %d-%d  gifts %d-%d  exchanges %d-%d  %s  (%s)\n",
		n, o.MatchID.Short(), winner,
		o.Scores[0], o.Scores[1],
		o.Lines[0], o.Lines[1],
		o.Gifts[0], o.Gifts[1],
		o.Exchanges[0], o.Exchanges[1],
		o.Duration.Round(time.Second), o.Reason)
}
