package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Icon is an opaque glyph handle. The engine treats it as pure display data;
// only the compositor looks inside. The source image's alpha channel is used
// as a mask: opaque pixels are painted in the cell's foreground color, so
// monochrome icon sets recolor cleanly per theme.
type Icon struct {
	mask image.Image
}

// IconFromImage wraps an already-decoded image as an icon.
func IconFromImage(img image.Image) *Icon {
	if img == nil {
		return nil
	}
	return &Icon{mask: img}
}

// LoadIcon decodes PNG, JPEG, or GIF data from r into an icon.
func LoadIcon(r io.Reader) (*Icon, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("render: decode icon: %w", err)
	}
	return &Icon{mask: img}, nil
}

// LoadIconFile decodes an icon from a file path.
func LoadIconFile(path string) (*Icon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open icon %s: %w", path, err)
	}
	defer f.Close()
	return LoadIcon(f)
}

// fitted returns the icon mask scaled to fit within w x h, preserving
// aspect ratio. Lanczos keeps thin strokes readable at 72px cell sizes.
func (ic *Icon) fitted(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return ic.mask
	}
	b := ic.mask.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return ic.mask
	}
	return imaging.Fit(ic.mask, w, h, imaging.Lanczos)
}
