// Package cleaner produces a background-free version of the brand logo
// before a batch starts. Removal runs a local matting routine; if anything
// goes wrong the original logo bytes are returned unchanged, so cleaning
// degrades quality but never aborts a batch.
package cleaner

import (
	"bytes"
	"context"
	"image/png"

	"github.com/menta2k/logo-stamper/pkg/processing"
)

// ProgressFunc receives coarse cleaning progress: a phase key and a
// fractional completion in [0,1]. Advisory only.
type ProgressFunc func(phase string, fraction float64)

// Config holds configuration for background matting
type Config struct {
	// Tolerance is the maximum normalized color distance from the sampled
	// background color for a pixel to be treated as background, in [0,1].
	Tolerance float64
	// Feather is the distance band above Tolerance over which alpha ramps
	// from transparent to opaque, in [0,1].
	Feather float64
	// BorderSample is the thickness in pixels of the border ring sampled to
	// estimate the background color.
	BorderSample int
}

// Cleaner removes the background of a logo image
type Cleaner struct {
	config    Config
	processor *processing.Processor
	progress  ProgressFunc
}

// New creates a new Cleaner with default configuration
func New() *Cleaner {
	return &Cleaner{
		config: Config{
			Tolerance:    0.08,
			Feather:      0.06,
			BorderSample: 2,
		},
		processor: processing.NewProcessor(),
	}
}

// NewWithConfig creates a new Cleaner with custom configuration
func NewWithConfig(config Config) *Cleaner {
	c := New()
	if config.Tolerance > 0 {
		c.config.Tolerance = config.Tolerance
	}
	if config.Feather > 0 {
		c.config.Feather = config.Feather
	}
	if config.BorderSample > 0 {
		c.config.BorderSample = config.BorderSample
	}
	return c
}

// SetProgress installs a progress callback for coarse phase reporting
func (c *Cleaner) SetProgress(fn ProgressFunc) {
	c.progress = fn
}

// Clean removes the background from the logo and re-encodes it as PNG so the
// result carries an alpha channel. On any failure the original bytes are
// returned unchanged; Clean never reports an error.
func (c *Cleaner) Clean(ctx context.Context, logoBytes []byte) []byte {
	if len(logoBytes) == 0 || ctx.Err() != nil {
		return logoBytes
	}

	c.report("decode", 0.1)
	img, err := c.processor.DecodeBytes(logoBytes)
	if err != nil {
		return logoBytes
	}

	c.report("matte", 0.4)
	matted := c.matte(img)
	if matted == nil {
		return logoBytes
	}

	c.report("encode", 0.8)
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, matted); err != nil || buf.Len() == 0 {
		return logoBytes
	}

	c.report("done", 1.0)
	return buf.Bytes()
}

func (c *Cleaner) report(phase string, fraction float64) {
	if c.progress != nil {
		c.progress(phase, fraction)
	}
}
