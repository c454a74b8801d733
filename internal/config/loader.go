package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in each search location.
const FileName = "duel.yaml"

// appDir is the directory under $XDG_CONFIG_HOME.
const appDir = "tetris-duel"

// Source describes where a configuration came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// Load reads the configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/tetris-duel/duel.yaml ->
// ./configs/duel.yaml -> embedded default -> Default().
// Only a broken custom path is an error; other locations are skipped when unreadable.
func Load(customPath string) (Config, Source, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, SourceCustom, err
		}
		return cfg, SourceCustom, nil
	}

	if path, err := xdg.SearchConfigFile(filepath.Join(appDir, FileName)); err == nil {
		if cfg, err := loadFile(path); err == nil {
			return cfg, SourceUser, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", FileName)); err == nil {
		return cfg, SourceLocal, nil
	}

	cfg, err := parse(defaultDuelYAML)
	if err != nil {
		return Default(), SourceBuiltin, nil
	}
	return cfg, SourceEmbedded, nil
}

// UserPath returns where a user configuration file is expected,
// creating the parent directory if needed.
func UserPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appDir, FileName))
	if err != nil {
		return "", fmt.Errorf("config: resolve user path: %w", err)
	}
	return path, nil
}

// WriteDefault writes the embedded default configuration to path
// unless a file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, defaultDuelYAML, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// parse decodes data over Default so omitted fields keep their defaults,
// then validates the result.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
