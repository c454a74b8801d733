// duel is a two-board Tetris match played in the terminal: you against a
// CPU planner, or two planners against each other.
//
// Usage:
//
//	duel list              - List available match types
//	duel play [match]      - Play a match (default: duel)
//	duel menu              - Start menu to pick matches interactively
//	duel sim               - Run headless CPU vs CPU rounds
//	duel serve             - Start SSH server for remote play
//	duel config init|path  - Manage the configuration file
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default: from config, 60)
//	--seed <value>       - Set RNG seed for reproducible matches
//	--config <path>      - Use a specific duel.yaml
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tetris-duel/internal/config"
	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/duel"
	"github.com/vovakirdan/tetris-duel/internal/games/tetris"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

// Resolved in PersistentPreRunE.
var (
	appConfig config.Config
	appLogger = log.New(io.Discard)
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duel",
	Short: "Tetris Duel - two boards, one winner",
	Long: `Tetris Duel puts two Tetris boards side by side. Clearing lines sends
gifts and row exchanges to the other board, and crossing every 200 points
slows both boards down for ten seconds.

Available commands:
  list     - Show all match types
  play     - Play a match directly
  menu     - Interactive picker with round history
  sim      - Run CPU vs CPU rounds without a terminal
  serve    - Start SSH server for remote play
  config   - Write or locate the configuration file

Examples:
  duel play
  duel play demo --seed 42
  duel menu --fps 30
  duel sim --rounds 5
  duel serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to duel.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration, applies flag overrides and wires the
// logger and theme into the duel package.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagFPS != 0 {
		cfg.Runtime.TickRate = flagFPS
	}
	if flagSeed != 0 {
		cfg.Runtime.Seed = flagSeed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level, logOutput(cmd))
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "source", source, "tick_rate", cfg.Runtime.TickRate)

	appConfig = cfg
	appLogger = logger
	duel.SetLogger(logger)
	duel.SetTheme(themeFromConfig(cfg.Theme))
	return nil
}

// logOutput picks where logs go. Full-screen commands must not write to the
// terminal, so without --log-file they only log when running headless.
func logOutput(cmd *cobra.Command) io.Writer {
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			logFile = f
			return f
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	switch cmd.Name() {
	case simCmd.Name(), serveCmd.Name():
		return os.Stderr
	}
	return io.Discard
}

func newLogger(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

// themeFromConfig resolves color names; Validate has already rejected unknown ones.
func themeFromConfig(t config.ThemeConfig) duel.Theme {
	theme := duel.DefaultTheme()
	theme.Cell = t.CellRune()
	for name, color := range t.Colors {
		r, _ := utf8.DecodeRuneInString(name)
		kind, ok := tetris.ParseKind(r)
		if !ok || kind == tetris.Empty {
			continue
		}
		if c, ok := core.ParseColor(color); ok {
			theme.Colors[kind] = c
		}
	}
	return theme
}

// runtimeConfig builds the game runtime config sized to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appConfig.Runtime.TickRate,
		Seed:     appConfig.Runtime.Seed,
	}
}
