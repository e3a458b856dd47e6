package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	logostamper "github.com/menta2k/logo-stamper"
	appconfig "github.com/menta2k/logo-stamper/internal/config"
	"github.com/menta2k/logo-stamper/internal/utils"
	"github.com/menta2k/logo-stamper/pkg/batch"
	"github.com/menta2k/logo-stamper/pkg/corner"
	"github.com/menta2k/logo-stamper/pkg/llamacpp"
	"github.com/menta2k/logo-stamper/pkg/ollama"
	"github.com/menta2k/logo-stamper/pkg/processing"
	"github.com/menta2k/logo-stamper/pkg/types"
)

func main() {
	defaults := appconfig.Default()

	var logoPath, inDir, outDir, model, url, configPath string
	var backend string
	var opacity float64
	var wmScale float64
	var logoScale float64
	var pad int

	flag.StringVar(&logoPath, "logo", "", "logo image path or URL (jpg/png/webp)")
	flag.StringVar(&inDir, "in", "", "directory of product images (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "output directory for the archive (default from config)")
	flag.StringVar(&configPath, "config", "", "config file path (default: "+appconfig.GetConfigPath()+")")
	flag.StringVar(&model, "model", defaults.Vision.Model, "model name")
	flag.StringVar(&backend, "backend", defaults.Vision.Backend, "backend to use: ollama, llamacpp, or none")
	flag.StringVar(&url, "url", "", "server URL (defaults: ollama=http://localhost:11434/api/chat, llamacpp=http://localhost:8080)")

	flag.Float64Var(&opacity, "opacity", defaults.Branding.WatermarkOpacity, "watermark opacity (0-1)")
	flag.Float64Var(&wmScale, "wmscale", defaults.Branding.WatermarkScale, "watermark width as fraction of image width (0-1]")
	flag.Float64Var(&logoScale, "logoscale", defaults.Branding.LogoScale, "corner mark width as fraction of image width (0-1]")
	flag.IntVar(&pad, "pad", defaults.Branding.LogoPadding, "corner mark padding in pixels")

	flag.Parse()

	// An explicit config file overrides flag defaults that were not set
	if configPath == "" && utils.FileExists(appconfig.GetConfigPath()) {
		configPath = appconfig.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := appconfig.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := loaded.Validate(); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		applyConfig(loaded, &backend, &model, &url, &outDir, &opacity, &wmScale, &logoScale, &pad)
	}
	if outDir == "" {
		outDir = defaults.Output.Dir
	}
	if logoPath == "" || inDir == "" {
		log.Fatalf("usage: %s -logo logo.png -in products/ [-backend ollama|llamacpp|none] [-url server_url] [-out outdir]", filepath.Base(os.Args[0]))
	}
	if !utils.DirExists(inDir) {
		log.Fatalf("input directory does not exist: %s", inDir)
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	// Create appropriate corner selector based on backend
	var selector batch.CornerSelector

	switch backend {
	case "ollama":
		if url == "" {
			url = "http://localhost:11434/api/chat"
		}
		visionClient, err := ollama.NewClient(url)
		if err != nil {
			log.Fatalf("Failed to create Ollama client: %v", err)
		}
		selector = corner.NewOracle(visionClient, model)
	case "llamacpp":
		if url == "" {
			url = "http://localhost:8080"
		}
		visionClient, err := llamacpp.NewClient(url)
		if err != nil {
			log.Fatalf("Failed to create llama.cpp client: %v", err)
		}
		selector = corner.NewOracle(visionClient, model)
	case "none":
		// No vision backend: every corner mark goes to the default corner
		selector = corner.NewFixed(types.DefaultCorner)
	default:
		log.Fatalf("Unknown backend: %s (use 'ollama', 'llamacpp' or 'none')\n", backend)
	}

	processor := processing.NewProcessor()

	// Load logo bytes (from file or URL)
	logoBytes, err := processor.FetchBytes(logoPath)
	if err != nil {
		log.Fatal(err)
	}

	// Collect product images in input order
	paths, err := utils.ListImageFiles(inDir)
	if err != nil {
		log.Fatal(err)
	}
	if len(paths) == 0 {
		log.Fatalf("no product images found in %s", inDir)
	}

	items := make([]types.ProductItem, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		items = append(items, types.ProductItem{Name: filepath.Base(path), Data: data})
	}

	stamper := logostamper.NewWithSelector(selector)
	stamper.SetProgress(func(p types.Progress) {
		log.Printf("[%d/%d] %s", p.Completed, p.Total, p.Status)
	})
	stamper.SetCleaningProgress(func(phase string, fraction float64) {
		log.Printf("cleaning logo: %s (%.0f%%)", phase, fraction*100)
	})

	cfg := types.BrandingConfig{
		WatermarkOpacity: opacity,
		WatermarkScale:   wmScale,
		LogoScale:        logoScale,
		LogoPadding:      pad,
	}

	result, err := stamper.Run(context.Background(), logoBytes, items, cfg)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}

	archivePath := filepath.Join(outDir, utils.ArchiveName(time.Now()))
	if err := os.WriteFile(archivePath, result.Archive, 0o644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %s (%s, %d images)\n", archivePath, utils.FormatFileSize(int64(len(result.Archive))), len(items))
}

// applyConfig fills in values the user did not override on the command line
func applyConfig(cfg *appconfig.Config, backend, model, url, outDir *string, opacity, wmScale, logoScale *float64, pad *int) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["backend"] {
		*backend = cfg.Vision.Backend
	}
	if !set["model"] {
		*model = cfg.Vision.Model
	}
	if !set["url"] && cfg.Vision.URL != "" {
		*url = cfg.Vision.URL
	}
	if !set["out"] && cfg.Output.Dir != "" {
		*outDir = cfg.Output.Dir
	}
	if !set["opacity"] {
		*opacity = cfg.Branding.WatermarkOpacity
	}
	if !set["wmscale"] {
		*wmScale = cfg.Branding.WatermarkScale
	}
	if !set["logoscale"] {
		*logoScale = cfg.Branding.LogoScale
	}
	if !set["pad"] {
		*pad = cfg.Branding.LogoPadding
	}
}
