// Package render turns cell descriptions (text, optional icon, colors) into
// RGBA bitmaps sized for one controller button. The composition functions are
// deterministic pure functions of their inputs; all state lives in the
// Renderer, which caches the parsed font face.
package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Config controls how button bitmaps are composed.
type Config struct {
	// Width and Height are the bitmap dimensions in pixels. They should
	// match Device.ButtonSize.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// FontData is a TTF/OTF font blob. When nil, the embedded Go Regular
	// font is used.
	FontData []byte `yaml:"-"`

	// FontScale is the text point size at 72 DPI.
	FontScale float64 `yaml:"font_scale"`
}

// DefaultConfig returns the standard 72x72 configuration used by most
// Stream Deck class controllers.
func DefaultConfig() Config {
	return Config{
		Width:     72,
		Height:    72,
		FontData:  goregular.TTF,
		FontScale: 14,
	}
}

// normalized returns cfg with zero values replaced by defaults.
func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if len(cfg.FontData) == 0 {
		cfg.FontData = def.FontData
	}
	if cfg.FontScale <= 0 {
		cfg.FontScale = def.FontScale
	}
	return cfg
}

// newFace parses the configured font and builds a face at the configured
// scale.
func (cfg Config) newFace() (font.Face, error) {
	f, err := opentype.Parse(cfg.FontData)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cfg.FontScale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: build font face: %w", err)
	}
	return face, nil
}
