package config

import (
	_ "embed"
)

//go:embed defaults/duel.yaml
var defaultDuelYAML []byte

// DefaultYAML returns the embedded default duel.yaml.
func DefaultYAML() []byte {
	return defaultDuelYAML
}
