// Package config provides maze preset management.
//
// The config package handles:
//   - Loading maze presets from JSON files
//   - Preset validation
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the presets directory, one per file.
// The file name without .json is the preset ID used when creating a maze:
//
//	{
//	  "name": "classic",
//	  "description": "25x25 maze, new layout every time",
//	  "size": 25,
//	  "strategy": "stack"
//	}
//
// A "seed" field pins the layout so every maze built from the preset is identical.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("tiny")
//	defaultPreset := manager.GetDefault()
//	presets, err := manager.ListPresets()
//
// The default preset is classic.json when present, otherwise the first valid
// preset in the directory, otherwise a built-in medium maze.
package config
