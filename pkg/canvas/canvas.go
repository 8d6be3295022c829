// Package canvas exposes the dashboard canvas builder behind a small facade: the
// reconciler wired to the in-memory grid engine, the HTML surface and the event
// broadcaster.
package canvas

import (
	"context"
	"errors"
	"strconv"

	core "github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/pkg/gridengine"
	"go.uber.org/zap"
)

// Reconciler exposes the underlying components/canvas.Reconciler type.
type Reconciler = core.Reconciler

// Options re-export for convenience.
type Options = core.Options

// DashboardTemplate re-export for convenience.
type DashboardTemplate = core.DashboardTemplate

// Timing re-export for convenience.
type Timing = core.Timing

// NewReconciler proxies to the internal constructor.
func NewReconciler(opts Options) (*Reconciler, error) {
	return core.NewReconciler(opts)
}

// Config selects the collaborators of a Canvas. Nil fields get defaults.
type Config struct {
	Store     core.TemplateStore
	Catalog   core.WidgetCatalog
	Renderer  core.Renderer
	Toaster   core.Toaster
	Notifier  core.Notifier
	Telemetry core.Telemetry
	Logger    *zap.Logger
	Timing    Timing
	EditMode  bool
}

var errNoEngine = errors.New("canvas: no live grid engine")

// Canvas bundles a reconciler with the in-memory grid engine, the HTML surface and a
// broadcast hook that receives every canvas event. Its command methods are what
// transports should drive: resizes pass through a ResizeWatcher so fullscreen
// resizes are debounced, and drops or moves go to the live engine.
type Canvas struct {
	Reconciler *Reconciler
	Engines    *gridengine.Factory
	Surface    *core.HTMLSurface
	Broadcast  *core.BroadcastHook
	Styles     *core.ColumnStyles

	resize *core.ResizeWatcher
}

// New assembles a Canvas.
func New(cfg Config) (*Canvas, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	styles := core.NewColumnStyles()
	surface, err := core.NewHTMLSurface(core.SurfaceOptions{
		Renderer: cfg.Renderer,
		Styles:   styles,
		NewMount: func(generation int) core.MountPoint {
			return gridengine.NewCanvas("canvas-grid-" + strconv.Itoa(generation))
		},
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	engines := gridengine.NewFactory()
	broadcast := core.NewBroadcastHook()
	var notifier core.Notifier = broadcast
	if cfg.Notifier != nil {
		notifier = core.Notifiers{broadcast, cfg.Notifier}
	}
	reconciler, err := core.NewReconciler(core.Options{
		Engines:   engines,
		Surface:   surface,
		Store:     cfg.Store,
		Toaster:   cfg.Toaster,
		Notifier:  notifier,
		Catalog:   cfg.Catalog,
		Telemetry: cfg.Telemetry,
		Logger:    cfg.Logger,
		Timing:    cfg.Timing,
		EditMode:  cfg.EditMode,
	})
	if err != nil {
		return nil, err
	}
	return &Canvas{
		Reconciler: reconciler,
		Engines:    engines,
		Surface:    surface,
		Broadcast:  broadcast,
		Styles:     styles,
		resize:     core.NewResizeWatcher(reconciler, cfg.Timing.FullscreenDebounce, cfg.Logger),
	}, nil
}

// Run drives the reconciler until ctx is cancelled.
func (c *Canvas) Run(ctx context.Context) error {
	defer c.resize.Close()
	return c.Reconciler.Run(ctx)
}

func (c *Canvas) Load(ctx context.Context, src core.Source) error {
	return c.Reconciler.Load(ctx, src)
}

func (c *Canvas) SetTemplate(ctx context.Context, tpl DashboardTemplate) error {
	return c.Reconciler.SetTemplate(ctx, tpl)
}

// Resize reports a measured container width. In fullscreen the width is debounced.
func (c *Canvas) Resize(ctx context.Context, width int) error {
	return c.resize.Observe(ctx, width)
}

func (c *Canvas) SetEditMode(ctx context.Context, on bool) error {
	return c.Reconciler.SetEditMode(ctx, on)
}

// SetFullscreen toggles fullscreen on both the watcher and the reconciler. Leaving
// fullscreen drops a pending debounced resize.
func (c *Canvas) SetFullscreen(ctx context.Context, on bool) error {
	c.resize.SetFullscreen(on)
	return c.Reconciler.SetFullscreen(ctx, on)
}

func (c *Canvas) SetPreviewPreset(ctx context.Context, presetID string) error {
	return c.Reconciler.SetPreviewPreset(ctx, presetID)
}

func (c *Canvas) SetPreviewSize(ctx context.Context, size core.PreviewSize) error {
	return c.Reconciler.SetPreviewSize(ctx, size)
}

func (c *Canvas) Click(ctx context.Context, gridItemID string) error {
	return c.Reconciler.Click(ctx, gridItemID)
}

// Drop drops a palette widget onto the live engine. The reconciler adopts it
// asynchronously through the engine's dropped event.
func (c *Canvas) Drop(_ context.Context, widgetType string, x, y, w, h int) error {
	engine, ok := c.Engines.Current()
	if !ok {
		return errNoEngine
	}
	_, err := engine.Drop(widgetType, x, y, w, h)
	return err
}

// Move drags or resizes a mounted item on the live engine.
func (c *Canvas) Move(_ context.Context, gridItemID string, x, y, w, h int) error {
	engine, ok := c.Engines.Current()
	if !ok {
		return errNoEngine
	}
	return engine.Move(gridItemID, x, y, w, h)
}

// Engine returns the live grid engine, false while none is attached.
func (c *Canvas) Engine() (*gridengine.Engine, bool) {
	return c.Engines.Current()
}
