package config

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed defaults/levels/*.yaml
var defaultLevels embed.FS

//go:embed defaults/schema/level.schema.json
var levelSchemaJSON []byte

// DefaultLevelFiles returns the embedded level files by file name.
func DefaultLevelFiles() map[string][]byte {
	out := make(map[string][]byte)
	entries, err := fs.ReadDir(defaultLevels, "defaults/levels")
	if err != nil {
		return out
	}
	for _, e := range entries {
		data, err := defaultLevels.ReadFile(path.Join("defaults/levels", e.Name()))
		if err != nil {
			continue
		}
		out[e.Name()] = data
	}
	return out
}

// DefaultLevels parses every embedded level, ordered for play.
func DefaultLevels() ([]LevelConfig, error) {
	files := DefaultLevelFiles()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	levels := make([]LevelConfig, 0, len(names))
	for _, name := range names {
		cfg, err := ParseLevel(files[name])
		if err != nil {
			return nil, err
		}
		levels = append(levels, cfg)
	}
	SortLevels(levels)
	return levels, nil
}
