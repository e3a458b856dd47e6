// Package compositor draws the brand marks onto a product photograph: a
// large translucent watermark centered on the canvas and a small opaque mark
// near one corner, then encodes the result as maximum-quality JPEG.
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/logo-stamper/pkg/types"
)

var (
	// ErrRender means a drawing surface could not be prepared.
	ErrRender = errors.New("compositor: cannot prepare drawing surface")
	// ErrEncode means final serialization yielded no bytes.
	ErrEncode = errors.New("compositor: encoding produced no bytes")
)

// markAspect is the fixed width:height ratio forced onto the brand mark.
// The logo is stretched to this ratio regardless of its native proportions.
const markAspect = 1.1

// jpegQuality is the highest quality the encoder exposes.
const jpegQuality = 100

// Compositor composites brand marks onto product images
type Compositor struct{}

// New creates a new Compositor
func New() *Compositor {
	return &Compositor{}
}

// Composite draws the watermark and the corner mark onto the background and
// returns the JPEG-encoded result. The canvas always keeps the background's
// native dimensions. Draw order is fixed: background, watermark, corner
// mark, so the corner mark is never washed out by the watermark.
func (c *Compositor) Composite(background, logo image.Image, corner types.Corner, cfg types.BrandingConfig) ([]byte, error) {
	if background == nil || logo == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrRender)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	bounds := background.Bounds()
	canvasW, canvasH := bounds.Dx(), bounds.Dy()
	if canvasW <= 0 || canvasH <= 0 {
		return nil, fmt.Errorf("%w: background is %dx%d", ErrRender, canvasW, canvasH)
	}

	canvas := imaging.Clone(background)

	// Translucent centered watermark
	wmW := int(math.Round(float64(canvasW) * cfg.WatermarkScale))
	wmH := MarkHeight(wmW)
	if wmW >= 1 && wmH >= 1 {
		watermark := imaging.Resize(logo, wmW, wmH, imaging.Lanczos)
		pos := image.Pt((canvasW-wmW)/2, (canvasH-wmH)/2)
		canvas = imaging.Overlay(canvas, watermark, pos, cfg.WatermarkOpacity)
	}

	// Opaque corner mark, always drawn last
	markW := int(math.Round(float64(canvasW) * cfg.LogoScale))
	markH := MarkHeight(markW)
	if markW >= 1 && markH >= 1 {
		mark := imaging.Resize(logo, markW, markH, imaging.Lanczos)
		pos := MarkOrigin(corner, canvasW, canvasH, markW, markH, cfg.LogoPadding)
		canvas = imaging.Overlay(canvas, mark, pos, 1.0)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncode
	}
	return buf.Bytes(), nil
}

// MarkHeight returns the drawn height for a mark of the given width under
// the forced aspect ratio.
func MarkHeight(width int) int {
	return int(math.Round(float64(width) / markAspect))
}

// MarkOrigin returns the top-left drawing position of the corner mark.
// Unrecognized corners are treated as top-right.
func MarkOrigin(corner types.Corner, canvasW, canvasH, markW, markH, pad int) image.Point {
	switch corner {
	case types.CornerTopLeft:
		return image.Pt(pad, pad)
	case types.CornerBottomLeft:
		return image.Pt(pad, canvasH-markH-pad)
	case types.CornerBottomRight:
		return image.Pt(canvasW-markW-pad, canvasH-markH-pad)
	case types.CornerTopRight:
		return image.Pt(canvasW-markW-pad, pad)
	default:
		return image.Pt(canvasW-markW-pad, pad)
	}
}
