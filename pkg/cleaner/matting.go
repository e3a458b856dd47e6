package cleaner

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// matte estimates the background color from the image border and turns
// matching pixels transparent. Returns nil if the image is unusable.
func (c *Cleaner) matte(img image.Image) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	bgR, bgG, bgB, ok := c.sampleBorder(nrgba, w, h)
	if !ok {
		return nil
	}

	tol := c.config.Tolerance
	feather := c.config.Feather

	for y := 0; y < h; y++ {
		i := y * nrgba.Stride
		for x := 0; x < w; x++ {
			r := float64(nrgba.Pix[i+0])
			g := float64(nrgba.Pix[i+1])
			b := float64(nrgba.Pix[i+2])

			d := colorDistance(r, g, b, bgR, bgG, bgB)
			switch {
			case d <= tol:
				nrgba.Pix[i+3] = 0
			case d < tol+feather:
				// Ramp alpha linearly across the feather band
				frac := (d - tol) / feather
				a := float64(nrgba.Pix[i+3]) * frac
				nrgba.Pix[i+3] = uint8(math.Round(a))
			}
			i += 4
		}
	}

	return nrgba
}

// sampleBorder averages the pixels of a thin border ring, which is where the
// logo background dominates.
func (c *Cleaner) sampleBorder(img *image.NRGBA, w, h int) (float64, float64, float64, bool) {
	ring := c.config.BorderSample
	if ring > w/2 {
		ring = w / 2
	}
	if ring > h/2 {
		ring = h / 2
	}
	if ring < 1 {
		ring = 1
	}

	var sumR, sumG, sumB float64
	var count int

	add := func(x, y int) {
		i := y*img.Stride + x*4
		sumR += float64(img.Pix[i+0])
		sumG += float64(img.Pix[i+1])
		sumB += float64(img.Pix[i+2])
		count++
	}

	for y := 0; y < h; y++ {
		inBand := y < ring || y >= h-ring
		for x := 0; x < w; x++ {
			if inBand || x < ring || x >= w-ring {
				add(x, y)
			}
		}
	}

	if count == 0 {
		return 0, 0, 0, false
	}
	n := float64(count)
	return sumR / n, sumG / n, sumB / n, true
}

// colorDistance returns the normalized Euclidean RGB distance in [0,1]
func colorDistance(r, g, b, r2, g2, b2 float64) float64 {
	dr := r - r2
	dg := g - g2
	db := b - b2
	// max distance is sqrt(3) * 255
	return math.Sqrt(dr*dr+dg*dg+db*db) / (math.Sqrt(3) * 255)
}
