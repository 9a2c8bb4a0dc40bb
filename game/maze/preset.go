package maze

import (
	"encoding/json"
	"fmt"
	"os"
)

// Preset is a named maze recipe loaded from JSON
type Preset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Size        int      `json:"size"`
	Seed        *int64   `json:"seed,omitempty"` // nil means a fresh seed per maze
	Strategy    Strategy `json:"strategy,omitempty"`
}

// ValidatePreset checks a preset for required fields and a usable size and strategy
func ValidatePreset(preset *Preset) error {
	if preset == nil {
		return fmt.Errorf("%w: preset is nil", ErrInvalidPreset)
	}
	if preset.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if preset.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidPreset)
	}
	if preset.Size < MinSize || preset.Size > MaxSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidPreset, MinSize, MaxSize, preset.Size)
	}
	if _, err := ParseStrategy(string(preset.Strategy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return nil
}

// LoadPresetFile reads and validates a preset from a JSON file
func LoadPresetFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}

	if err := ValidatePreset(&preset); err != nil {
		return nil, err
	}

	return &preset, nil
}

// DefaultPreset is used when no preset directory entry is available
func DefaultPreset() *Preset {
	return &Preset{
		Name:        "default",
		Description: "Medium maze with a fresh seed every time",
		Size:        15,
		Strategy:    StackBacktrack,
	}
}
