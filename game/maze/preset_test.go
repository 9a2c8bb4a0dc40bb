package maze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePreset(t *testing.T) {
	seed := int64(5)
	tests := []struct {
		name    string
		preset  *Preset
		wantErr bool
	}{
		{"valid", &Preset{Name: "a", Description: "d", Size: 10}, false},
		{"valid with seed and scan", &Preset{Name: "a", Description: "d", Size: 10, Seed: &seed, Strategy: NeighborScan}, false},
		{"nil", nil, true},
		{"missing name", &Preset{Description: "d", Size: 10}, true},
		{"missing description", &Preset{Name: "a", Size: 10}, true},
		{"too small", &Preset{Name: "a", Description: "d", Size: 1}, true},
		{"too large", &Preset{Name: "a", Description: "d", Size: MaxSize + 1}, true},
		{"unknown strategy", &Preset{Name: "a", Description: "d", Size: 10, Strategy: "prim"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreset(tt.preset)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPreset)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPresetFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"name": "good",
		"description": "fixed seed",
		"size": 6,
		"seed": 42,
		"strategy": "scan"
	}`), 0644))

	preset, err := LoadPresetFile(good)
	require.NoError(t, err)
	assert.Equal(t, "good", preset.Name)
	assert.Equal(t, 6, preset.Size)
	require.NotNil(t, preset.Seed)
	assert.Equal(t, int64(42), *preset.Seed)
	assert.Equal(t, NeighborScan, preset.Strategy)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":`), 0644))
	_, err = LoadPresetFile(broken)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"name":"x","description":"y","size":0}`), 0644))
	_, err = LoadPresetFile(invalid)
	assert.ErrorIs(t, err, ErrInvalidPreset)

	_, err = LoadPresetFile(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultPreset(t *testing.T) {
	assert.NoError(t, ValidatePreset(DefaultPreset()))
}
