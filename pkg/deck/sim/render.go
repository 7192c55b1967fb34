package sim

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/muesli/termenv"
	xdraw "golang.org/x/image/draw"
)

// Protocol selects how button bitmaps are drawn into the terminal.
type Protocol int

const (
	ProtocolNone       Protocol = iota // graphics disabled
	ProtocolHalfblocks                 // Unicode half blocks with 24-bit color
	ProtocolKitty                      // Kitty graphics protocol
	ProtocolITerm2                     // iTerm2 inline images
	ProtocolSixel                      // Sixel graphics
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolHalfblocks: "halfblocks",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
}

func (p Protocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol maps a configuration string to a Protocol. "auto" and
// the empty string defer to detection.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectProtocol(), nil
	case "none", "off":
		return ProtocolNone, nil
	case "halfblocks", "unicode":
		return ProtocolHalfblocks, nil
	case "kitty":
		return ProtocolKitty, nil
	case "iterm2":
		return ProtocolITerm2, nil
	case "sixel":
		return ProtocolSixel, nil
	default:
		return ProtocolNone, fmt.Errorf("sim: unknown graphics protocol %q", s)
	}
}

// DetectProtocol picks the best protocol for the current terminal from
// environment signals. Pixel protocols are only chosen for terminals
// known to support them; everything else gets half blocks, which need
// no negotiation. SSH sessions degrade to half blocks too, since pixel
// protocols are unreliable across forwarding.
func DetectProtocol() Protocol {
	if termenv.EnvNoColor() {
		return ProtocolNone
	}
	if isSSH() {
		return ProtocolHalfblocks
	}

	switch strings.ToLower(os.Getenv("TERM_PROGRAM")) {
	case "ghostty", "kitty", "wezterm":
		return ProtocolKitty
	case "iterm.app":
		return ProtocolITerm2
	}
	switch term := os.Getenv("TERM"); {
	case term == "xterm-ghostty", term == "xterm-kitty":
		return ProtocolKitty
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return ProtocolKitty
	}
	if os.Getenv("ITERM_SESSION_ID") != "" || os.Getenv("LC_TERMINAL") == "iTerm2" {
		return ProtocolITerm2
	}
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return ProtocolKitty
	}

	return ProtocolHalfblocks
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != ""
}

// FrameRenderer turns button bitmaps into terminal escape strings, one
// button at a time, so a front end can arrange them in a grid.
type FrameRenderer struct {
	proto Protocol
}

// NewFrameRenderer creates a renderer using the given protocol.
func NewFrameRenderer(proto Protocol) *FrameRenderer {
	return &FrameRenderer{proto: proto}
}

// Protocol returns the active protocol.
func (r *FrameRenderer) Protocol() Protocol { return r.proto }

// Button renders one button bitmap into a block of widthCells by
// heightCells terminal cells. A nil image renders as empty space.
func (r *FrameRenderer) Button(img image.Image, widthCells, heightCells int) (string, error) {
	if widthCells <= 0 || heightCells <= 0 {
		return "", fmt.Errorf("sim: cell area %dx%d not renderable", widthCells, heightCells)
	}
	if img == nil || r.proto == ProtocolNone {
		return blankBlock(widthCells, heightCells), nil
	}

	switch r.proto {
	case ProtocolKitty:
		return renderPixels(img, termimg.Kitty, widthCells, heightCells)
	case ProtocolITerm2:
		return renderPixels(img, termimg.ITerm2, widthCells, heightCells)
	case ProtocolSixel:
		return renderPixels(img, termimg.Sixel, widthCells, heightCells)
	default:
		return renderHalfblocks(img, widthCells, heightCells), nil
	}
}

func renderPixels(img image.Image, proto termimg.Protocol, widthCells, heightCells int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("sim: termimg rejected image")
	}
	return ti.Protocol(proto).Size(widthCells, heightCells).Scale(termimg.ScaleFit).Render()
}

// renderHalfblocks packs two vertical pixels per character cell: the
// top pixel colors the upper half block's foreground, the bottom pixel
// its background. Works on any terminal with 24-bit color.
func renderHalfblocks(img image.Image, widthCells, heightCells int) string {
	px := scaleToBox(img, widthCells, heightCells*2)
	w := px.Bounds().Dx()
	h := px.Bounds().Dy()

	var b strings.Builder
	b.Grow(w * heightCells * 24)
	for row := 0; row < heightCells; row++ {
		if row > 0 {
			b.WriteString("\x1b[0m\n")
		}
		y := row * 2
		for x := 0; x < w; x++ {
			top := px.NRGBAAt(x, y)
			var bot = top
			bot.A = 0
			if y+1 < h {
				bot = px.NRGBAAt(x, y+1)
			}
			switch {
			case top.A == 0 && bot.A == 0:
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	b.WriteString("\x1b[0m")
	return b.String()
}

// scaleToBox fits the image into a w by h pixel box, preserving aspect
// ratio, and returns an NRGBA copy for direct pixel access.
func scaleToBox(img image.Image, w, h int) *image.NRGBA {
	src := img.Bounds()
	srcW, srcH := src.Dx(), src.Dy()
	if srcW <= 0 || srcH <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	scale := math.Min(float64(w)/float64(srcW), float64(h)/float64(srcH))
	dstW := int(math.Round(float64(srcW) * scale))
	dstH := int(math.Round(float64(srcH) * scale))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	if dstW == srcW && dstH == srcH {
		if n, ok := img.(*image.NRGBA); ok && src.Min == (image.Point{}) {
			return n
		}
		dst := image.NewNRGBA(image.Rect(0, 0, srcW, srcH))
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}

func blankBlock(widthCells, heightCells int) string {
	row := strings.Repeat(" ", widthCells)
	rows := make([]string, heightCells)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
