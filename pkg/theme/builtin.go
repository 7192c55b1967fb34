package theme

import "image/color"

// registerBuiltins registers all built-in themes in the registry.
func registerBuiltins() {
	for _, t := range []Theme{
		Dark(),
		Light(),
		Midnight(),
	} {
		Register(t)
	}
}

// Dark returns the default dark theme with a magenta active accent.
func Dark() Theme {
	return Theme{
		Name:               "dark",
		Background:         color.NRGBA{R: 20, G: 20, B: 25, A: 255},
		ActiveBackground:   color.NRGBA{R: 235, G: 51, B: 148, A: 255},
		InactiveBackground: color.NRGBA{R: 41, G: 41, B: 51, A: 255},
		PressedBackground:  color.NRGBA{R: 51, G: 217, B: 230, A: 255},
		ErrorBackground:    color.NRGBA{R: 255, G: 89, B: 0, A: 255},
		Foreground:         color.NRGBA{R: 242, G: 242, B: 255, A: 255},
		ActiveForeground:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Light returns a light theme with a blue active accent.
func Light() Theme {
	return Theme{
		Name:               "light",
		Background:         color.NRGBA{R: 240, G: 240, B: 245, A: 255},
		ActiveBackground:   color.NRGBA{R: 0, G: 122, B: 255, A: 255},
		InactiveBackground: color.NRGBA{R: 200, G: 200, B: 210, A: 255},
		PressedBackground:  color.NRGBA{R: 0, G: 180, B: 180, A: 255},
		ErrorBackground:    color.NRGBA{R: 255, G: 59, B: 48, A: 255},
		Foreground:         color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		ActiveForeground:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Midnight returns a low-brightness variant of the dark theme, intended for
// decks that sit in peripheral vision.
func Midnight() Theme {
	return Theme{
		Name:               "midnight",
		Background:         color.NRGBA{R: 8, G: 8, B: 12, A: 255},
		ActiveBackground:   color.NRGBA{R: 124, G: 58, B: 237, A: 255},
		InactiveBackground: color.NRGBA{R: 24, G: 24, B: 32, A: 255},
		PressedBackground:  color.NRGBA{R: 45, G: 125, B: 154, A: 255},
		ErrorBackground:    color.NRGBA{R: 153, G: 27, B: 27, A: 255},
		Foreground:         color.NRGBA{R: 148, G: 163, B: 184, A: 255},
		ActiveForeground:   color.NRGBA{R: 241, G: 245, B: 249, A: 255},
	}
}
