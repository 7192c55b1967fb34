package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// textMarginBottom is the gap in pixels between the text baseline area and
// the bottom edge of the cell.
const textMarginBottom = 6

// iconInset is the padding around the icon area within a cell.
const iconInset = 8

// Renderer composes button bitmaps using a parsed font face. Face shaping is
// stateful, so all composition goes through one mutex; the engine renders
// from a single event loop and never contends on it in practice.
type Renderer struct {
	cfg Config

	mu   sync.Mutex
	face font.Face
}

// NewRenderer validates cfg, fills defaults, and parses the font.
func NewRenderer(cfg Config) (*Renderer, error) {
	cfg = cfg.normalized()
	face, err := cfg.newFace()
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, face: face}, nil
}

// Config returns the normalized configuration the renderer was built with.
func (r *Renderer) Config() Config { return r.cfg }

// Text composes a bitmap with a solid background and bottom-centered text.
func (r *Renderer) Text(text string, fg, bg color.NRGBA) (*image.NRGBA, error) {
	img := r.background(bg)
	r.drawText(img, text, fg)
	return img, nil
}

// IconWithText composes a bitmap with a solid background, the icon recolored
// in fg and centered in the upper area, and bottom-centered text. A nil icon
// degrades to Text.
func (r *Renderer) IconWithText(ic *Icon, text string, fg, bg color.NRGBA) (*image.NRGBA, error) {
	if ic == nil {
		return r.Text(text, fg, bg)
	}
	img := r.background(bg)
	r.drawIcon(img, ic, fg)
	r.drawText(img, text, fg)
	return img, nil
}

// IconOnly composes a bitmap with a solid background and the icon recolored
// in fg, centered in the icon area.
func (r *Renderer) IconOnly(ic *Icon, fg, bg color.NRGBA) (*image.NRGBA, error) {
	img := r.background(bg)
	if ic != nil {
		r.drawIcon(img, ic, fg)
	}
	return img, nil
}

// Gradient composes a diagonal two-color gradient bitmap.
func (r *Renderer) Gradient(start, end color.NRGBA) (*image.NRGBA, error) {
	w, h := r.cfg.Width, r.cfg.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := (float64(x)/float64(w) + float64(y)/float64(h)) / 2
			img.SetNRGBA(x, y, color.NRGBA{
				R: lerp(start.R, end.R, t),
				G: lerp(start.G, end.G, t),
				B: lerp(start.B, end.B, t),
				A: 255,
			})
		}
	}
	return img, nil
}

// CustomImage adapts an arbitrary image to the configured cell size, cropping
// nothing and scaling nothing: the image is drawn at the top-left of a
// transparent canvas. Callers wanting fitted images should pre-scale.
func (r *Renderer) CustomImage(src image.Image) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img, nil
}

// background allocates the cell bitmap filled with bg.
func (r *Renderer) background(bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// drawIcon paints the icon's alpha mask in fg, centered in the area above
// the text band.
func (r *Renderer) drawIcon(dst *image.NRGBA, ic *Icon, fg color.NRGBA) {
	textBand := int(r.cfg.FontScale) + textMarginBottom
	areaW := r.cfg.Width - 2*iconInset
	areaH := r.cfg.Height - textBand - iconInset
	if areaW <= 0 || areaH <= 0 {
		return
	}

	mask := ic.fitted(areaW, areaH)
	mb := mask.Bounds()
	offX := iconInset + (areaW-mb.Dx())/2
	offY := iconInset/2 + (areaH-mb.Dy())/2
	rect := image.Rect(offX, offY, offX+mb.Dx(), offY+mb.Dy())

	draw.DrawMask(dst, rect, image.NewUniform(fg), image.Point{}, mask, mb.Min, draw.Over)
}

// drawText paints text horizontally centered along the bottom edge.
func (r *Renderer) drawText(dst *image.NRGBA, text string, fg color.NRGBA) {
	if text == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	advance := font.MeasureString(r.face, text)
	x := (r.cfg.Width - advance.Ceil()) / 2
	if x < 0 {
		x = 0
	}
	y := r.cfg.Height - textMarginBottom - r.face.Metrics().Descent.Ceil()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
