package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/maze-engine/game/maze"
	"github.com/wricardo/maze-engine/game/service"
)

var (
	ErrPresetNotFound = service.ErrPresetNotFound
	ErrInvalidPreset  = maze.ErrInvalidPreset
)

// DefaultPresetName is loaded as the default preset when present
const DefaultPresetName = "classic"

// Manager handles maze preset loading and caching
type Manager struct {
	presetDir     string
	defaultPreset *maze.Preset
	presets       map[string]*maze.Preset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager over a directory of JSON files
func NewManager(presetDir string) (*Manager, error) {
	// Ensure preset directory exists
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}

	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*maze.Preset),
	}

	m.defaultPreset = m.findDefaultPreset()
	return m, nil
}

// LoadPreset loads a preset by ID (its file name without .json)
func (m *Manager) LoadPreset(name string) (*maze.Preset, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := checkPresetName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if preset, exists := m.presets[name]; exists {
		return preset, nil
	}

	preset, err := maze.LoadPresetFile(m.presetPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
		}
		return nil, err
	}

	m.presets[name] = preset
	return preset, nil
}

// ListPresets returns information about all valid presets in the directory, sorted by ID
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	presets := []*service.PresetInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadPreset(id)
		if err != nil {
			// Skip invalid presets
			continue
		}

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    id,
			Name:        preset.Name,
			Description: preset.Description,
			Size:        preset.Size,
			Seed:        preset.Seed,
			Strategy:    preset.Strategy,
		})
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].PresetID < presets[j].PresetID
	})
	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *maze.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache drops cached presets and re-resolves the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*maze.Preset)
	m.mu.Unlock()

	preset := m.findDefaultPreset()

	m.mu.Lock()
	m.defaultPreset = preset
	m.mu.Unlock()
}

// findDefaultPreset prefers classic.json, then the first valid preset, then the built-in default
func (m *Manager) findDefaultPreset() *maze.Preset {
	if preset, err := m.LoadPreset(DefaultPresetName); err == nil {
		return preset
	}

	presets, err := m.ListPresets()
	if err != nil || len(presets) == 0 {
		return maze.DefaultPreset()
	}

	preset, err := m.LoadPreset(presets[0].PresetID)
	if err != nil {
		return maze.DefaultPreset()
	}
	return preset
}

// SavePreset validates a preset and writes it to disk
func (m *Manager) SavePreset(name string, preset *maze.Preset) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkPresetName(name); err != nil {
		return err
	}
	if err := maze.ValidatePreset(preset); err != nil {
		return err
	}

	// Marshal preset to JSON with indentation
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	if err := os.WriteFile(m.presetPath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.presets[name] = preset
	m.mu.Unlock()

	return nil
}

func (m *Manager) presetPath(name string) string {
	return filepath.Join(m.presetDir, name+".json")
}

// checkPresetName keeps preset IDs inside the preset directory
func checkPresetName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad preset name %q", ErrInvalidPreset, name)
	}
	return nil
}
