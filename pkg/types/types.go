package types

import "fmt"

// Corner identifies one of the four positions on a rectangular image where
// the opaque corner mark can be placed.
type Corner string

const (
	CornerTopLeft     Corner = "top_left"
	CornerTopRight    Corner = "top_right"
	CornerBottomLeft  Corner = "bottom_left"
	CornerBottomRight Corner = "bottom_right"
)

// DefaultCorner is the corner used whenever a placement decision cannot be
// obtained from the vision backend.
const DefaultCorner = CornerTopRight

// Valid reports whether c is one of the four known corners.
func (c Corner) Valid() bool {
	switch c {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
		return true
	}
	return false
}

// BrandingConfig holds the geometry and opacity settings applied to every
// product image in a batch. It is set once per run and passed by value.
type BrandingConfig struct {
	// WatermarkOpacity is the alpha applied to the centered watermark, in [0,1].
	WatermarkOpacity float64 `json:"watermark_opacity"`
	// WatermarkScale is the watermark width as a fraction of canvas width, in (0,1].
	WatermarkScale float64 `json:"watermark_scale"`
	// LogoScale is the corner mark width as a fraction of canvas width, in (0,1].
	LogoScale float64 `json:"logo_scale"`
	// LogoPadding is the distance in pixels between the corner mark and the edges.
	LogoPadding int `json:"logo_padding"`
}

// Validate checks that all branding parameters are within their allowed ranges.
func (c BrandingConfig) Validate() error {
	if c.WatermarkOpacity < 0 || c.WatermarkOpacity > 1 {
		return fmt.Errorf("watermark_opacity must be between 0 and 1, got %v", c.WatermarkOpacity)
	}
	if c.WatermarkScale <= 0 || c.WatermarkScale > 1 {
		return fmt.Errorf("watermark_scale must be in (0,1], got %v", c.WatermarkScale)
	}
	if c.LogoScale <= 0 || c.LogoScale > 1 {
		return fmt.Errorf("logo_scale must be in (0,1], got %v", c.LogoScale)
	}
	if c.LogoPadding < 0 {
		return fmt.Errorf("logo_padding must be non-negative, got %d", c.LogoPadding)
	}
	return nil
}

// ProductItem pairs the raw encoded bytes of a product photograph with the
// name it was loaded under. The output filename is derived from Name.
type ProductItem struct {
	Name string
	Data []byte
}

// Progress is a read-only snapshot of a batch run, published to observers
// after every item and at named milestones.
type Progress struct {
	Running   bool
	Total     int
	Completed int
	Status    string
}

// State describes where a batch run is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the terminal artifact of a batch run: either the finished
// archive payload or the failure that aborted the run. A new run replaces
// the previous result.
type Result struct {
	State   State
	Archive []byte
	Err     error
}
