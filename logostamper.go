// Package logostamper bulk-applies brand identity onto product photographs.
//
// The pipeline removes the logo's background once, then for each product
// image asks a vision model which top corner has more open space, draws a
// translucent centered watermark plus an opaque corner mark at a forced
// 1.1:1 aspect ratio, encodes the result as maximum-quality JPEG, and
// bundles every output into a single zip archive.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		logostamper "github.com/menta2k/logo-stamper"
//		"github.com/menta2k/logo-stamper/pkg/ollama"
//		"github.com/menta2k/logo-stamper/pkg/types"
//	)
//
//	func main() {
//		visionClient, err := ollama.NewClient("http://localhost:11434/api/chat")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		stamper := logostamper.New(visionClient, "openbmb/minicpm-v4.5")
//
//		logo, _ := os.ReadFile("logo.png")
//		product, _ := os.ReadFile("product.jpg")
//
//		result, err := stamper.Run(context.Background(), logo,
//			[]types.ProductItem{{Name: "product.jpg", Data: product}},
//			logostamper.DefaultBranding())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		os.WriteFile("branded.zip", result.Archive, 0o644)
//	}
//
// The package consists of four main components:
//
// 1. Compositor (pkg/compositor): deterministic geometry and JPEG encoding
// 2. Corner Oracle (pkg/corner): vision-model corner selection with fallback
// 3. Background Cleaner (pkg/cleaner): logo matting with fallback
// 4. Batch Orchestrator (pkg/batch): sequential run lifecycle and archiving
//
// Vision backends live in pkg/ollama and pkg/llamacpp behind the
// client.VisionClient interface, so both the oracle and the whole batch can
// be exercised with deterministic fakes. Processing is local and strictly
// sequential: at most one decoded product image and the decoded logo are
// resident at any instant.
package logostamper

import (
	"context"

	"github.com/menta2k/logo-stamper/pkg/batch"
	"github.com/menta2k/logo-stamper/pkg/cleaner"
	"github.com/menta2k/logo-stamper/pkg/client"
	"github.com/menta2k/logo-stamper/pkg/compositor"
	"github.com/menta2k/logo-stamper/pkg/corner"
	"github.com/menta2k/logo-stamper/pkg/types"
)

// Version of the logo stamper library
const Version = "1.0.0"

// LogoStamper provides a high-level interface for batch logo branding
type LogoStamper struct {
	cleaner      *cleaner.Cleaner
	orchestrator *batch.Orchestrator
}

// New creates a LogoStamper whose corner decisions come from the given
// vision backend.
func New(visionClient client.VisionClient, model string) *LogoStamper {
	return NewWithSelector(corner.NewOracle(visionClient, model))
}

// NewWithSelector creates a LogoStamper with a custom corner selector. Use
// corner.NewFixed to run batches without a vision backend.
func NewWithSelector(selector batch.CornerSelector) *LogoStamper {
	logoCleaner := cleaner.New()
	return &LogoStamper{
		cleaner:      logoCleaner,
		orchestrator: batch.New(selector, logoCleaner, compositor.New()),
	}
}

// DefaultBranding returns the branding configuration used when the caller
// has no preference.
func DefaultBranding() types.BrandingConfig {
	return types.BrandingConfig{
		WatermarkOpacity: 0.25,
		WatermarkScale:   0.5,
		LogoScale:        0.15,
		LogoPadding:      24,
	}
}

// SetProgress installs an observer for batch progress snapshots
func (ls *LogoStamper) SetProgress(fn batch.ProgressFunc) {
	ls.orchestrator.SetProgress(fn)
}

// SetCleaningProgress installs an observer for coarse logo-cleaning phases
func (ls *LogoStamper) SetCleaningProgress(fn cleaner.ProgressFunc) {
	ls.cleaner.SetProgress(fn)
}

// Run executes one branding batch over the given logo and product images
func (ls *LogoStamper) Run(ctx context.Context, logoBytes []byte, items []types.ProductItem, cfg types.BrandingConfig) (types.Result, error) {
	return ls.orchestrator.Run(ctx, logoBytes, items, cfg)
}

// State returns the lifecycle state of the most recent run
func (ls *LogoStamper) State() types.State {
	return ls.orchestrator.State()
}

// Progress returns the latest progress snapshot
func (ls *LogoStamper) Progress() types.Progress {
	return ls.orchestrator.Progress()
}

// Result returns the terminal artifact of the most recent run
func (ls *LogoStamper) Result() types.Result {
	return ls.orchestrator.Result()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
