// Package config loads the YAML runtime configuration of the duel: frame rate,
// seed, piece theme, key bindings, SSH server and logging settings. Game rules
// are fixed and deliberately absent from this file.
package config

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/tetris-duel/internal/core"
)

// Config is the root of duel.yaml.
type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Theme   ThemeConfig   `yaml:"theme"`
	Keys    KeysConfig    `yaml:"keys"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// RuntimeConfig controls the simulation loop.
type RuntimeConfig struct {
	TickRate int   `yaml:"tick_rate"` // frames per second
	Seed     int64 `yaml:"seed"`      // 0 = seeded from the clock
}

// ThemeConfig controls how pieces are drawn.
type ThemeConfig struct {
	Cell   string            `yaml:"cell"`   // single glyph used for every block
	Colors map[string]string `yaml:"colors"` // piece letter -> color name
}

// KeysConfig lists the keys bound to each action, in Bubble Tea key notation.
type KeysConfig struct {
	Left    []string `yaml:"left"`
	Right   []string `yaml:"right"`
	Down    []string `yaml:"down"`
	Rotate  []string `yaml:"rotate"`
	Pause   []string `yaml:"pause"`
	Restart []string `yaml:"restart"`
	Quit    []string `yaml:"quit"`
}

// ServerConfig configures `duel serve`.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{TickRate: 60},
		Theme: ThemeConfig{
			Cell: "█",
			Colors: map[string]string{
				"I": "cyan",
				"J": "blue",
				"L": "orange",
				"O": "yellow",
				"S": "green",
				"T": "magenta",
				"Z": "red",
			},
		},
		Keys: KeysConfig{
			Left:    []string{"left", "a", "h"},
			Right:   []string{"right", "d", "l"},
			Down:    []string{"down", "s", "j"},
			Rotate:  []string{"up", "w", "k", "space"},
			Pause:   []string{"p"},
			Restart: []string{"r"},
			Quit:    []string{"q", "esc", "ctrl+c"},
		},
		Server: ServerConfig{
			Address:     "localhost:23234",
			HostKey:     ".ssh/duel_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Runtime.TickRate <= 0 || c.Runtime.TickRate > 240 {
		return fmt.Errorf("config: runtime.tick_rate must be in 1..240, got %d", c.Runtime.TickRate)
	}
	if utf8.RuneCountInString(c.Theme.Cell) != 1 {
		return fmt.Errorf("config: theme.cell must be a single character, got %q", c.Theme.Cell)
	}
	for kind, name := range c.Theme.Colors {
		if !isKindName(kind) {
			return fmt.Errorf("config: theme.colors: unknown piece %q", kind)
		}
		if _, ok := core.ParseColor(name); !ok {
			return fmt.Errorf("config: theme.colors.%s: unknown color %q", kind, name)
		}
	}
	for name, keys := range c.Keys.byAction() {
		if len(keys) == 0 {
			return fmt.Errorf("config: keys.%s must list at least one key", name)
		}
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: server.idle_timeout must not be negative")
	}
	return nil
}

func (k KeysConfig) byAction() map[string][]string {
	return map[string][]string{
		"left":    k.Left,
		"right":   k.Right,
		"down":    k.Down,
		"rotate":  k.Rotate,
		"pause":   k.Pause,
		"restart": k.Restart,
		"quit":    k.Quit,
	}
}

func isKindName(s string) bool {
	switch s {
	case "I", "J", "L", "O", "S", "T", "Z":
		return true
	}
	return false
}

// CellRune returns the theme glyph.
func (t ThemeConfig) CellRune() rune {
	r, _ := utf8.DecodeRuneInString(t.Cell)
	return r
}
