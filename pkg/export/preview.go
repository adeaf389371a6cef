// Package export renders static slide previews. SVG output goes through
// ajstarks/svgo, PNG through gg. Both paint the visible element set
// back-to-front in stacking order, so always-on-top elements land above
// ordinary ones regardless of raw zIndex values.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

var (
	colorBackdrop = color.RGBA{0x1b, 0x1d, 0x22, 0xff}
	colorFill     = color.RGBA{0x3a, 0x3f, 0x4a, 0xff}
	colorText     = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
	colorStroke   = color.RGBA{0x6a, 0x70, 0x80, 0xff}
)

// paintOrder returns the slide's visible elements bottom-to-top: the reverse
// of the topmost-first ranking, so later draws cover earlier ones.
func paintOrder(show *model.Slideshow, slideIdx int, opts zorder.Options) ([]*model.Element, error) {
	if show == nil || slideIdx < 0 || slideIdx >= len(show.Slides) {
		return nil, fmt.Errorf("no slide at index %d", slideIdx)
	}
	ranked := zorder.Ranked(zorder.VisibleSet(show, show.Slides[slideIdx]), opts)
	out := make([]*model.Element, len(ranked))
	for i, el := range ranked {
		out[len(ranked)-1-i] = el
	}
	return out, nil
}

// SVG writes a vector preview of one slide to w.
func SVG(w io.Writer, show *model.Slideshow, slideIdx int, opts zorder.Options) error {
	elements, err := paintOrder(show, slideIdx, opts)
	if err != nil {
		return err
	}
	slide := show.Slides[slideIdx]

	canvas := svg.New(w)
	canvas.Start(show.PreviewWidth, show.PreviewHeight)
	canvas.Rect(0, 0, show.PreviewWidth, show.PreviewHeight,
		fmt.Sprintf("fill:%s", backgroundCSS(slide)))
	for _, el := range elements {
		drawElementSVG(canvas, el)
	}
	canvas.End()
	return nil
}

// SaveSVG renders one slide to a file.
func SaveSVG(path string, show *model.Slideshow, slideIdx int, opts zorder.Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return SVG(f, show, slideIdx, opts)
}

func drawElementSVG(canvas *svg.SVG, el *model.Element) {
	x, y := int(el.X), int(el.Y)
	w, h := int(el.Width), int(el.Height)
	if w <= 0 {
		w = 100
	}
	if h <= 0 {
		h = 40
	}
	fill := el.Fill
	if fill == "" {
		fill = css(colorFill)
	}
	switch el.Type {
	case model.ElementText:
		canvas.Text(x, y+h/2, el.Content,
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", css(colorText), textSize(h)))
	case model.ElementImage, model.ElementVideo:
		canvas.Roundrect(x, y, w, h, 4, 4,
			fmt.Sprintf("fill:%s;stroke:%s", fill, css(colorStroke)))
		canvas.Text(x+8, y+h/2, label(el),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
	default:
		canvas.Rect(x, y, w, h, fmt.Sprintf("fill:%s", fill))
	}
}

// PNG renders a raster preview of one slide and writes it to path.
func PNG(path string, show *model.Slideshow, slideIdx int, opts zorder.Options) error {
	elements, err := paintOrder(show, slideIdx, opts)
	if err != nil {
		return err
	}
	slide := show.Slides[slideIdx]

	dc := gg.NewContext(show.PreviewWidth, show.PreviewHeight)
	dc.SetColor(parseColor(slide.Background, colorBackdrop))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, el := range elements {
		drawElementPNG(dc, el)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return dc.SavePNG(path)
}

func drawElementPNG(dc *gg.Context, el *model.Element) {
	w, h := el.Width, el.Height
	if w <= 0 {
		w = 100
	}
	if h <= 0 {
		h = 40
	}
	switch el.Type {
	case model.ElementText:
		dc.SetColor(colorText)
		dc.DrawStringAnchored(el.Content, el.X, el.Y+h/2, 0, 0.5)
	case model.ElementImage, model.ElementVideo:
		dc.SetColor(parseColor(el.Fill, colorFill))
		dc.DrawRoundedRectangle(el.X, el.Y, w, h, 4)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawRoundedRectangle(el.X, el.Y, w, h, 4)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(label(el), el.X+8, el.Y+h/2, 0, 0.5)
	default:
		dc.SetColor(parseColor(el.Fill, colorFill))
		dc.DrawRectangle(el.X, el.Y, w, h)
		dc.Fill()
	}
}

func label(el *model.Element) string {
	if el.Name != "" {
		return el.Name
	}
	return string(el.Type)
}

func textSize(h int) int {
	if h >= 48 {
		return 24
	}
	if h >= 24 {
		return 16
	}
	return 12
}

func backgroundCSS(slide *model.Slide) string {
	if slide.Background != "" {
		return slide.Background
	}
	return css(colorBackdrop)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseColor accepts #rgb and #rrggbb; anything else falls back.
func parseColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}
