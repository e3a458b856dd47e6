// Package batch drives the end-to-end branding run: clean the logo once,
// then for each product image decide a corner, composite the marks, and
// collect the encoded result into a single archive. Items are processed
// strictly one at a time so peak memory stays at one decoded product image
// plus the one decoded logo.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/menta2k/logo-stamper/internal/utils"
	"github.com/menta2k/logo-stamper/pkg/archive"
	"github.com/menta2k/logo-stamper/pkg/processing"
	"github.com/menta2k/logo-stamper/pkg/types"
)

var (
	// ErrMissingLogo rejects a run without a logo image.
	ErrMissingLogo = errors.New("batch: logo image is required")
	// ErrNoProducts rejects a run with an empty product list.
	ErrNoProducts = errors.New("batch: product list is empty")
	// ErrRunInProgress rejects overlapping runs on the same orchestrator.
	ErrRunInProgress = errors.New("batch: a run is already in progress")
)

// CornerSelector chooses the corner-mark position for one product image
// from its raw encoded bytes. Selections never fail.
type CornerSelector interface {
	SelectCorner(ctx context.Context, imageBytes []byte) types.Corner
}

// LogoCleaner produces a background-free version of the logo bytes, falling
// back to the original bytes on failure.
type LogoCleaner interface {
	Clean(ctx context.Context, logoBytes []byte) []byte
}

// Compositor draws the brand marks onto a decoded product image and returns
// the encoded result.
type Compositor interface {
	Composite(background, logo image.Image, corner types.Corner, cfg types.BrandingConfig) ([]byte, error)
}

// ProgressFunc receives a progress snapshot after every state change
type ProgressFunc func(types.Progress)

// Orchestrator sequences a branding batch and owns its lifecycle state
type Orchestrator struct {
	selector   CornerSelector
	cleaner    LogoCleaner
	compositor Compositor
	processor  *processing.Processor
	newArchive func() archive.Writer
	progress   ProgressFunc

	mu       sync.Mutex
	state    types.State
	snapshot types.Progress
	result   types.Result
}

// New creates an Orchestrator from its three collaborators. The archive
// defaults to a stored-entry zip.
func New(selector CornerSelector, cleaner LogoCleaner, compositor Compositor) *Orchestrator {
	return &Orchestrator{
		selector:   selector,
		cleaner:    cleaner,
		compositor: compositor,
		processor:  processing.NewProcessor(),
		newArchive: func() archive.Writer { return archive.NewZip() },
		state:      types.StateIdle,
	}
}

// SetProgress installs an observer that receives a snapshot after every
// item and at named milestones.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

// SetArchiveFactory replaces the archive implementation used per run
func (o *Orchestrator) SetArchiveFactory(fn func() archive.Writer) {
	if fn != nil {
		o.newArchive = fn
	}
}

// State returns the current lifecycle state
func (o *Orchestrator) State() types.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Progress returns the latest progress snapshot
func (o *Orchestrator) Progress() types.Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// Result returns the terminal artifact of the most recent run
func (o *Orchestrator) Result() types.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Run executes one branding batch. The logo is cleaned and decoded once and
// held for the whole run; each product is decoded, judged, composited, and
// released before the next one starts. Any decode, compositing, or archive
// failure aborts the remaining items and the run ends Failed with no
// partial archive exposed. Pre-flight rejections leave the state untouched.
func (o *Orchestrator) Run(ctx context.Context, logoBytes []byte, items []types.ProductItem, cfg types.BrandingConfig) (types.Result, error) {
	if len(logoBytes) == 0 {
		return types.Result{}, ErrMissingLogo
	}
	if len(items) == 0 {
		return types.Result{}, ErrNoProducts
	}
	if err := cfg.Validate(); err != nil {
		return types.Result{}, fmt.Errorf("batch: %w", err)
	}

	if err := o.begin(len(items)); err != nil {
		return types.Result{}, err
	}

	o.publish("cleaning logo background")
	cleaned := o.cleaner.Clean(ctx, logoBytes)

	logoImg, err := o.processor.DecodeBytes(cleaned)
	if err != nil {
		return o.fail(fmt.Errorf("decode logo: %w", err))
	}

	ar := o.newArchive()
	total := len(items)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return o.fail(err)
		}

		o.publish(fmt.Sprintf("processing %d of %d", i+1, total))

		encoded, err := o.processItem(ctx, item, logoImg, cfg)
		if err != nil {
			return o.fail(err)
		}

		if err := ar.Add(utils.OutputName(item.Name), encoded); err != nil {
			return o.fail(err)
		}

		o.completeItem(i + 1)
	}

	o.publish("finalizing archive")
	payload, err := ar.Finalize()
	if err != nil {
		return o.fail(err)
	}

	return o.complete(payload), nil
}

// processItem brands a single product. The decoded product raster lives only
// inside this call, so at most one product image is resident alongside the
// logo at any instant.
func (o *Orchestrator) processItem(ctx context.Context, item types.ProductItem, logo image.Image, cfg types.BrandingConfig) ([]byte, error) {
	product, err := o.processor.DecodeBytes(item.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", item.Name, err)
	}

	// Corner is judged from the raw encoded bytes, not the decoded raster
	corner := o.selector.SelectCorner(ctx, item.Data)

	encoded, err := o.compositor.Composite(product, logo, corner, cfg)
	if err != nil {
		return nil, fmt.Errorf("composite %s: %w", item.Name, err)
	}
	return encoded, nil
}

// begin transitions Idle/terminal -> Running and resets the prior result
func (o *Orchestrator) begin(total int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == types.StateRunning {
		return ErrRunInProgress
	}
	o.state = types.StateRunning
	o.result = types.Result{}
	o.snapshot = types.Progress{
		Running: true,
		Total:   total,
		Status:  "starting",
	}
	o.notify(o.snapshot)
	return nil
}

func (o *Orchestrator) publish(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot.Status = status
	o.notify(o.snapshot)
}

func (o *Orchestrator) completeItem(completed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// Completed only ever increases
	if completed > o.snapshot.Completed {
		o.snapshot.Completed = completed
	}
	o.notify(o.snapshot)
}

func (o *Orchestrator) fail(err error) (types.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = types.StateFailed
	o.result = types.Result{State: types.StateFailed, Err: err}
	o.snapshot.Running = false
	o.snapshot.Status = fmt.Sprintf("failed: %v", err)
	o.notify(o.snapshot)
	return o.result, err
}

func (o *Orchestrator) complete(payload []byte) types.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = types.StateCompleted
	o.result = types.Result{State: types.StateCompleted, Archive: payload}
	o.snapshot.Running = false
	o.snapshot.Status = "completed"
	o.notify(o.snapshot)
	return o.result
}

// notify is called with o.mu held; the callback receives a value copy
func (o *Orchestrator) notify(p types.Progress) {
	if o.progress != nil {
		o.progress(p)
	}
}
