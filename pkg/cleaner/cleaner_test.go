package cleaner

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestLogoPNG builds a logo with a solid disc on a uniform background
func createTestLogoPNG(t *testing.T, size int, background, subject color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := size / 3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-size/2, y-size/2
			if dx*dx+dy*dy < r*r {
				img.Set(x, y, subject)
			} else {
				img.Set(x, y, background)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test logo: %v", err)
	}
	return buf.Bytes()
}

func TestCleanRemovesUniformBackground(t *testing.T) {
	c := New()
	white := color.RGBA{255, 255, 255, 255}
	red := color.RGBA{200, 30, 30, 255}
	logo := createTestLogoPNG(t, 120, white, red)

	out := c.Clean(context.Background(), logo)
	if bytes.Equal(out, logo) {
		t.Fatal("expected cleaned bytes to differ from original")
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("cleaned logo is not valid PNG: %v", err)
	}

	// Border pixel (background) should be fully transparent
	_, _, _, a := img.At(1, 1).RGBA()
	if a != 0 {
		t.Errorf("border pixel alpha = %d, want 0", a>>8)
	}

	// Subject center should remain opaque
	_, _, _, a = img.At(60, 60).RGBA()
	if a>>8 != 255 {
		t.Errorf("subject pixel alpha = %d, want 255", a>>8)
	}
}

func TestCleanFallsBackOnUndecodableInput(t *testing.T) {
	c := New()
	garbage := []byte("this is not an image at all")

	out := c.Clean(context.Background(), garbage)
	if !bytes.Equal(out, garbage) {
		t.Error("expected original bytes back for undecodable input")
	}
}

func TestCleanEmptyInput(t *testing.T) {
	c := New()
	if out := c.Clean(context.Background(), nil); out != nil {
		t.Error("expected nil back for empty input")
	}
}

func TestCleanCancelledContext(t *testing.T) {
	c := New()
	logo := createTestLogoPNG(t, 40, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := c.Clean(ctx, logo)
	if !bytes.Equal(out, logo) {
		t.Error("expected original bytes back when context is cancelled")
	}
}

func TestCleanReportsPhases(t *testing.T) {
	c := New()
	logo := createTestLogoPNG(t, 60, color.RGBA{255, 255, 255, 255}, color.RGBA{10, 10, 10, 255})

	var phases []string
	var fractions []float64
	c.SetProgress(func(phase string, fraction float64) {
		phases = append(phases, phase)
		fractions = append(fractions, fraction)
	})

	c.Clean(context.Background(), logo)

	if len(phases) == 0 {
		t.Fatal("expected progress phases to be reported")
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Errorf("fractions not monotonic: %v", fractions)
		}
	}
	if last := fractions[len(fractions)-1]; last != 1.0 {
		t.Errorf("final fraction = %v, want 1.0", last)
	}
	if phases[len(phases)-1] != "done" {
		t.Errorf("final phase = %q, want done", phases[len(phases)-1])
	}
}

func TestNewWithConfigOverrides(t *testing.T) {
	c := NewWithConfig(Config{Tolerance: 0.2, Feather: 0.1, BorderSample: 4})
	if c.config.Tolerance != 0.2 {
		t.Errorf("Tolerance = %v, want 0.2", c.config.Tolerance)
	}
	if c.config.Feather != 0.1 {
		t.Errorf("Feather = %v, want 0.1", c.config.Feather)
	}
	if c.config.BorderSample != 4 {
		t.Errorf("BorderSample = %v, want 4", c.config.BorderSample)
	}

	// Zero values keep defaults
	d := NewWithConfig(Config{})
	if d.config.Tolerance != New().config.Tolerance {
		t.Error("zero Tolerance should keep the default")
	}
}
