package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseLevel validates and decodes one level file.
func ParseLevel(data []byte) (LevelConfig, error) {
	var cfg LevelConfig
	if err := ValidateLevel(data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	// Resolve once so bad tokens surface at load time.
	if _, err := cfg.Settings(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLevelFile reads and parses a level file.
func LoadLevelFile(path string) (LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LevelConfig{}, fmt.Errorf("failed to read level %s: %w", path, err)
	}
	cfg, err := ParseLevel(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLevelDir parses every .yaml/.yml file in dir. A missing directory
// yields no levels; an unreadable or invalid file is an error.
func LoadLevelDir(dir string) ([]LevelConfig, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading level dir %s: %w", dir, err)
	}

	var levels []LevelConfig
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		cfg, err := LoadLevelFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		levels = append(levels, cfg)
	}
	return levels, nil
}

// LevelDirs returns the level directories in priority order:
// customDir -> ~/.hexfall/levels -> ./levels. Empty entries are skipped.
func LevelDirs(customDir string) []string {
	var dirs []string
	if customDir != "" {
		dirs = append(dirs, customDir)
	}
	if dir := userLevelDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return append(dirs, "levels")
}

// LoadLevels merges the levels of every directory with the embedded
// defaults. A level from a higher-priority source replaces one with the
// same id from a lower one.
func LoadLevels(customDir string) ([]LevelConfig, error) {
	byID := make(map[string]LevelConfig)

	defaults, err := DefaultLevels()
	if err != nil {
		return nil, fmt.Errorf("embedded levels: %w", err)
	}
	for _, cfg := range defaults {
		byID[cfg.ID] = cfg
	}

	dirs := LevelDirs(customDir)
	for i := len(dirs) - 1; i >= 0; i-- {
		levels, err := LoadLevelDir(dirs[i])
		if err != nil {
			return nil, err
		}
		for _, cfg := range levels {
			byID[cfg.ID] = cfg
		}
	}

	out := make([]LevelConfig, 0, len(byID))
	for _, cfg := range byID {
		out = append(out, cfg)
	}
	SortLevels(out)
	return out, nil
}

// LoadLevel finds one level by id across every source.
func LoadLevel(customDir, id string) (LevelConfig, error) {
	levels, err := LoadLevels(customDir)
	if err != nil {
		return LevelConfig{}, err
	}
	for _, cfg := range levels {
		if cfg.ID == id {
			return cfg, nil
		}
	}
	return LevelConfig{}, fmt.Errorf("level not found: %s", id)
}

// SortLevels orders levels by Order, then by id.
func SortLevels(levels []LevelConfig) {
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Order != levels[j].Order {
			return levels[i].Order < levels[j].Order
		}
		return levels[i].ID < levels[j].ID
	})
}

// userLevelDir returns ~/.hexfall/levels, or empty if home is unavailable.
func userLevelDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hexfall", "levels")
}
