package theme

import (
	"fmt"
	"image/color"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlTheme is the TOML-serializable representation of a Theme. All colors
// are "#rrggbb" hex strings; omitted fields inherit from the dark theme.
type tomlTheme struct {
	Name       string         `toml:"name"`
	Background tomlBackground `toml:"background"`
	Foreground tomlForeground `toml:"foreground"`
}

type tomlBackground struct {
	Default  string `toml:"default"`
	Active   string `toml:"active"`
	Inactive string `toml:"inactive"`
	Pressed  string `toml:"pressed"`
	Error    string `toml:"error"`
}

type tomlForeground struct {
	Default string `toml:"default"`
	Active  string `toml:"active"`
}

// override parses hex into a color when set, keeping fallback otherwise.
func override(hex string, fallback color.NRGBA) (color.NRGBA, error) {
	if hex == "" {
		return fallback, nil
	}
	return ParseHex(hex)
}

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if tt.Name == "" {
		return Theme{}, fmt.Errorf("theme: TOML theme is missing a name")
	}

	t := Dark()
	t.Name = tt.Name

	var err error
	if t.Background, err = override(tt.Background.Default, t.Background); err != nil {
		return Theme{}, err
	}
	if t.ActiveBackground, err = override(tt.Background.Active, t.ActiveBackground); err != nil {
		return Theme{}, err
	}
	if t.InactiveBackground, err = override(tt.Background.Inactive, t.InactiveBackground); err != nil {
		return Theme{}, err
	}
	if t.PressedBackground, err = override(tt.Background.Pressed, t.PressedBackground); err != nil {
		return Theme{}, err
	}
	if t.ErrorBackground, err = override(tt.Background.Error, t.ErrorBackground); err != nil {
		return Theme{}, err
	}
	if t.Foreground, err = override(tt.Foreground.Default, t.Foreground); err != nil {
		return Theme{}, err
	}
	if t.ActiveForeground, err = override(tt.Foreground.Active, t.ActiveForeground); err != nil {
		return Theme{}, err
	}

	return t, nil
}

// LoadFile reads and registers a theme from a TOML file, returning it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	Register(t)
	return t, nil
}
