package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-engine/game/maze"
)

func createValidPreset(name string, size int) *maze.Preset {
	return &maze.Preset{
		Name:        name,
		Description: "Test preset " + name,
		Size:        size,
		Strategy:    maze.StackBacktrack,
	}
}

func writePresetFile(t *testing.T, dir, name string, preset any) {
	t.Helper()
	data, err := json.MarshalIndent(preset, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("empty directory uses built-in default", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, maze.DefaultPreset(), m.GetDefault())
	})

	t.Run("classic is preferred", func(t *testing.T) {
		dir := t.TempDir()
		writePresetFile(t, dir, "aaa", createValidPreset("aaa", 5))
		writePresetFile(t, dir, "classic", createValidPreset("classic", 25))

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "classic", m.GetDefault().Name)
	})

	t.Run("first valid preset without classic", func(t *testing.T) {
		dir := t.TempDir()
		writePresetFile(t, dir, "broken", map[string]any{"name": "broken"})
		writePresetFile(t, dir, "zeta", createValidPreset("zeta", 7))
		writePresetFile(t, dir, "beta", createValidPreset("beta", 6))

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "beta", m.GetDefault().Name)
	})
}

func TestManager_LoadPreset(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "tiny", createValidPreset("tiny", 4))
	writePresetFile(t, dir, "invalid", map[string]any{"name": "x", "description": "y", "size": 0})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{not json"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		wantErr error
		anyErr  bool
	}{
		{name: "by id", id: "tiny"},
		{name: "with extension", id: "tiny.json"},
		{name: "missing", id: "huge", wantErr: ErrPresetNotFound},
		{name: "invalid contents", id: "invalid", wantErr: ErrInvalidPreset},
		{name: "unparseable", id: "garbage", anyErr: true},
		{name: "path traversal", id: "../tiny", wantErr: ErrInvalidPreset},
		{name: "empty", id: "", wantErr: ErrInvalidPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, err := m.LoadPreset(tt.id)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 4, preset.Size)
			}
		})
	}
}

func TestManager_ListPresets(t *testing.T) {
	dir := t.TempDir()
	seed := int64(9)
	fixed := createValidPreset("fixed", 8)
	fixed.Seed = &seed
	writePresetFile(t, dir, "fixed", fixed)
	writePresetFile(t, dir, "classic", createValidPreset("classic", 25))
	writePresetFile(t, dir, "bad", map[string]any{"size": 3})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	m, err := NewManager(dir)
	require.NoError(t, err)

	presets, err := m.ListPresets()
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, "classic", presets[0].PresetID)
	assert.Equal(t, "classic.json", presets[0].Filename)
	assert.Equal(t, 25, presets[0].Size)

	assert.Equal(t, "fixed", presets[1].PresetID)
	require.NotNil(t, presets[1].Seed)
	assert.Equal(t, int64(9), *presets[1].Seed)
}

func TestManager_SavePreset(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	preset := createValidPreset("saved", 12)
	require.NoError(t, m.SavePreset("saved", preset))

	fromDisk, err := maze.LoadPresetFile(filepath.Join(dir, "saved.json"))
	require.NoError(t, err)
	assert.Equal(t, preset, fromDisk)

	loaded, err := m.LoadPreset("saved")
	require.NoError(t, err)
	assert.Same(t, preset, loaded)

	err = m.SavePreset("bad", &maze.Preset{Name: "bad", Description: "d", Size: maze.MaxSize + 1})
	assert.ErrorIs(t, err, ErrInvalidPreset)
	_, statErr := os.Stat(filepath.Join(dir, "bad.json"))
	assert.True(t, os.IsNotExist(statErr))

	err = m.SavePreset("../escape", preset)
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "classic", createValidPreset("classic", 25))
	writePresetFile(t, dir, "tiny", createValidPreset("tiny", 4))

	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.SetDefault("tiny"))
	assert.Equal(t, "tiny", m.GetDefault().Name)
	assert.ErrorIs(t, m.SetDefault("missing"), ErrPresetNotFound)

	// Changes on disk are picked up after a refresh
	writePresetFile(t, dir, "classic", createValidPreset("classic", 30))
	cached, err := m.LoadPreset("classic")
	require.NoError(t, err)
	assert.Equal(t, 25, cached.Size)

	m.RefreshCache()
	assert.Equal(t, 30, m.GetDefault().Size)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writePresetFile(t, dir, name, createValidPreset(name, 5))
	}
	m, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"a", "b", "c"}[i%3]
			preset, err := m.LoadPreset(name)
			if assert.NoError(t, err) {
				assert.Equal(t, name, preset.Name)
			}
			_, err = m.ListPresets()
			assert.NoError(t, err)
			m.GetDefault()
		}(i)
	}
	wg.Wait()
}
