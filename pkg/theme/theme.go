// Package theme defines the color palettes used when rasterizing button
// cells. A Theme maps each visual button state to a background color and
// carries the two foreground colors the render pipeline composes text and
// icons with. Themes are plain configuration data: they can come from the
// built-in registry or from TOML files.
package theme

import (
	"fmt"
	"image/color"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Theme is the complete palette for one visual style.
type Theme struct {
	Name string

	// Backgrounds, one per button visual state.
	Background         color.NRGBA // default state
	ActiveBackground   color.NRGBA
	InactiveBackground color.NRGBA
	PressedBackground  color.NRGBA
	ErrorBackground    color.NRGBA

	// Foregrounds. Active and Pressed cells use ActiveForeground; all
	// other states use Foreground.
	Foreground       color.NRGBA
	ActiveForeground color.NRGBA
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	registerBuiltins()
}

// Register adds or replaces a theme in the registry, keyed by its
// lowercased name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// Get returns a named theme, falling back to the dark theme if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["dark"]
}

// Names returns all registered theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseHex parses a "#rrggbb" hex color into an opaque NRGBA value.
func ParseHex(s string) (color.NRGBA, error) {
	if !hexColorRegex.MatchString(s) {
		return color.NRGBA{}, fmt.Errorf("theme: invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("theme: parse hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatHex renders a color back into "#rrggbb" form. The alpha channel is
// dropped; themes are always opaque.
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
