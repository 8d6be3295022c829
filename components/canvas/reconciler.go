package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadFailedMessage is the transient notification shown when a template cannot be loaded.
const LoadFailedMessage = "An error occurred"

var (
	// ErrStopped is returned by inputs submitted after the reconciler loop exited.
	ErrStopped = errors.New("canvas: reconciler stopped")

	errMissingSource  = errors.New("canvas: neither a template nor a dashboard id was supplied")
	errMissingStore   = errors.New("canvas: template store not configured")
	errMissingEngines = errors.New("canvas: engine factory not configured")
	errMissingSurface = errors.New("canvas: surface not configured")
	errAlreadyRunning = errors.New("canvas: reconciler already running")
	errNoTemplate     = errors.New("canvas: no template assigned")
	errUnknownPreset  = errors.New("canvas: unknown screen preset")
)

// State is the reconciler lifecycle state.
type State int32

const (
	StateIdle State = iota
	StatePatchPending
	StateRebuildPending
)

func (s State) String() string {
	switch s {
	case StatePatchPending:
		return "patch_pending"
	case StateRebuildPending:
		return "rebuild_pending"
	default:
		return "idle"
	}
}

// Action is the outcome of the decision policy for one ChangeSet.
type Action int

const (
	ActionNone Action = iota
	ActionColumns
	ActionPatch
	ActionRebuild
)

func (a Action) String() string {
	switch a {
	case ActionColumns:
		return "columns"
	case ActionPatch:
		return "patch"
	case ActionRebuild:
		return "rebuild"
	default:
		return "none"
	}
}

// Decide maps a ChangeSet onto the reconciliation action, in priority order.
func Decide(changes ChangeSet, hasEngine bool) Action {
	switch {
	case changes.Empty():
		return ActionNone
	case changes.Only(FieldColumns) && hasEngine:
		return ActionColumns
	case changes.Has(FieldID):
		return ActionRebuild
	case len(changes.ChangedKeys) > 1:
		return ActionRebuild
	case changes.Only(FieldWidgets):
		return ActionPatch
	case changes.Only(FieldScreenPresets):
		return ActionRebuild
	default:
		return ActionNone
	}
}

// Timing groups the reconciler's timers.
type Timing struct {
	// PollInterval is the fallback poll of the rebuild barrier.
	PollInterval time.Duration
	// BarrierTimeout bounds how long a forced rebuild waits for the surface.
	BarrierTimeout time.Duration
	// DragClickGuard is how long clicks stay ignored after a drag or resize stops.
	DragClickGuard time.Duration
	// FullscreenDebounce debounces container resizes in fullscreen.
	FullscreenDebounce time.Duration
}

// DefaultTiming returns the default timers.
func DefaultTiming() Timing {
	return Timing{
		PollInterval:       400 * time.Millisecond,
		BarrierTimeout:     5 * time.Second,
		DragClickGuard:     200 * time.Millisecond,
		FullscreenDebounce: 550 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.PollInterval <= 0 {
		t.PollInterval = def.PollInterval
	}
	if t.BarrierTimeout <= 0 {
		t.BarrierTimeout = def.BarrierTimeout
	}
	if t.DragClickGuard <= 0 {
		t.DragClickGuard = def.DragClickGuard
	}
	if t.FullscreenDebounce <= 0 {
		t.FullscreenDebounce = def.FullscreenDebounce
	}
	return t
}

// Options configures the Reconciler. Engines and Surface are required.
type Options struct {
	Engines         EngineFactory
	Surface         Surface
	Store           TemplateStore
	Toaster         Toaster
	Notifier        Notifier
	Catalog         WidgetCatalog
	ConfigValidator ConfigValidator
	Telemetry       Telemetry
	Logger          *zap.Logger
	Timing          Timing
	EditMode        bool
	Fullscreen      bool
	NewID           func() string
	Now             func() time.Time
}

// Source selects what the canvas mounts with: a template, or the id of a stored one.
type Source struct {
	Template    *DashboardTemplate
	DashboardID string
}

// View is a read-only copy of the reconciler's published state.
type View struct {
	Template      *DashboardTemplate
	Active        *ScreenPreset
	PreviewPreset *ScreenPreset
	PreviewSize   PreviewSize
	Width         int
	Columns       int
	EditMode      bool
	Fullscreen    bool
	Static        bool
	HasEngine     bool
	State         State
}

// Reconciler owns the layout engine instance and applies template changes to it.
// Every input is processed in order by the loop started with Run.
type Reconciler struct {
	opts      Options
	log       *zap.Logger
	timing    Timing
	inbox     *mailbox
	events    *eventQueue
	selection *Selection
	running   atomic.Bool
	stopped   chan struct{}
	state     atomic.Int32

	// Owned by the loop goroutine.
	template      *DashboardTemplate
	engine        Engine
	active        *ScreenPreset
	previewPreset *ScreenPreset
	previewSize   PreviewSize
	width         int
	editMode      bool
	fullscreen    bool

	mu   sync.RWMutex
	view View
}

// NewReconciler builds a Reconciler with safe defaults.
func NewReconciler(opts Options) (*Reconciler, error) {
	if opts.Engines == nil {
		return nil, errMissingEngines
	}
	if opts.Surface == nil {
		return nil, errMissingSurface
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Toaster == nil {
		opts.Toaster = noopToaster{}
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Catalog == nil {
		opts.Catalog = NewDefaultCatalog()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Timing = opts.Timing.withDefaults()

	r := &Reconciler{
		opts:       opts,
		log:        opts.Logger,
		timing:     opts.Timing,
		inbox:      newMailbox(),
		events:     newEventQueue(opts.Notifier, opts.Logger),
		stopped:    make(chan struct{}),
		editMode:   opts.EditMode,
		fullscreen: opts.Fullscreen,
	}
	r.selection = NewSelection(SelectionOptions{
		Notifier:  r.events,
		Telemetry: opts.Telemetry,
		Logger:    opts.Logger,
		Guard:     opts.Timing.DragClickGuard,
		Now:       opts.Now,
	})
	r.publish()
	return r, nil
}

// Run processes inputs until ctx is cancelled. Inputs submitted before Run starts
// are queued. Notifications are delivered on a separate goroutine, in order.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	go r.events.run()
	defer func() {
		r.inbox.close()
		r.selection.Close()
		if r.engine != nil {
			r.engine.Destroy(false)
			r.engine = nil
		}
		r.publish()
		close(r.stopped)
		r.events.close()
	}()
	r.log.Debug("canvas: reconciler started")
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("canvas: reconciler stopped")
			return nil
		case <-r.inbox.signal:
			for _, req := range r.inbox.drain() {
				r.step(ctx, req)
			}
		}
	}
}

func (r *Reconciler) step(ctx context.Context, req request) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("canvas: reconciliation step panicked",
				zap.String("step", req.name),
				zap.Any("panic", rec),
			)
			r.setState(StateIdle)
		}
		r.publish()
		if req.done != nil {
			close(req.done)
		}
	}()
	req.fn(ctx)
}

// submit queues fn and waits until the loop processed it.
func (r *Reconciler) submit(ctx context.Context, name string, fn func(context.Context)) error {
	done := make(chan struct{})
	if !r.inbox.push(request{name: name, fn: fn, done: done}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting. Engine callbacks use it.
func (r *Reconciler) post(name string, fn func(context.Context)) {
	if !r.inbox.push(request{name: name, fn: fn}) {
		r.log.Debug("canvas: dropped input after stop", zap.String("step", name))
	}
}

// Load mounts the canvas from a template or, failing that, a stored dashboard id.
func (r *Reconciler) Load(ctx context.Context, src Source) error {
	if src.Template != nil {
		return r.SetTemplate(ctx, *src.Template)
	}
	if src.DashboardID == "" {
		r.log.Error("canvas: cannot mount canvas", zap.Error(errMissingSource))
		return errMissingSource
	}
	if r.opts.Store == nil {
		r.log.Error("canvas: cannot load dashboard", zap.String("dashboard_id", src.DashboardID), zap.Error(errMissingStore))
		return errMissingStore
	}
	tpl, err := r.opts.Store.Get(ctx, src.DashboardID)
	if err != nil {
		r.log.Error("canvas: load dashboard template",
			zap.String("dashboard_id", src.DashboardID),
			zap.Error(err),
		)
		r.opts.Toaster.Toast(ctx, LoadFailedMessage)
		return fmt.Errorf("canvas: load dashboard %s: %w", src.DashboardID, err)
	}
	return r.SetTemplate(ctx, tpl)
}

// SetTemplate assigns a new template snapshot and reconciles it against the current one.
func (r *Reconciler) SetTemplate(ctx context.Context, tpl DashboardTemplate) error {
	next := tpl.Clone()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("canvas: invalid template: %w", err)
	}
	if err := ValidateWidgets(r.opts.Catalog, r.opts.ConfigValidator, next); err != nil {
		return fmt.Errorf("canvas: invalid widget config: %w", err)
	}
	return r.submit(ctx, "template", func(ctx context.Context) {
		r.assign(ctx, next)
	})
}

// Resize reports the measured width of the canvas container.
func (r *Reconciler) Resize(ctx context.Context, width int) error {
	return r.submit(ctx, "resize", func(ctx context.Context) {
		if width == r.width && r.engine != nil {
			return
		}
		r.width = width
		r.setup(ctx, true, false)
	})
}

// SetEditMode toggles edit mode. A toggle forces a rebuild.
func (r *Reconciler) SetEditMode(ctx context.Context, on bool) error {
	return r.submit(ctx, "edit_mode", func(ctx context.Context) {
		if on == r.editMode {
			return
		}
		r.editMode = on
		r.setup(ctx, true, true)
	})
}

// SetFullscreen toggles fullscreen. Outside fullscreen the canvas width follows the preview.
func (r *Reconciler) SetFullscreen(ctx context.Context, on bool) error {
	return r.submit(ctx, "fullscreen", func(ctx context.Context) {
		if on == r.fullscreen {
			return
		}
		r.fullscreen = on
		if !on && r.previewSize.Width > 0 {
			r.width = r.previewSize.Width
			r.setup(ctx, true, false)
		}
	})
}

// SetPreviewPreset previews the canvas at the size of a screen preset.
func (r *Reconciler) SetPreviewPreset(ctx context.Context, presetID string) error {
	var err error
	submitErr := r.submit(ctx, "preview_preset", func(ctx context.Context) {
		if r.template == nil {
			err = errNoTemplate
			return
		}
		preset, ok := r.template.PresetByID(presetID)
		if !ok {
			err = fmt.Errorf("%w: %s", errUnknownPreset, presetID)
			return
		}
		r.applyPreview(preset)
		if !r.fullscreen {
			r.setup(ctx, true, false)
		}
	})
	if submitErr != nil {
		return submitErr
	}
	return err
}

// SetPreviewSize previews the canvas at a custom size. A size matching a preset
// re-selects that preset.
func (r *Reconciler) SetPreviewSize(ctx context.Context, size PreviewSize) error {
	return r.submit(ctx, "preview_size", func(ctx context.Context) {
		r.previewSize = size
		r.previewPreset = nil
		if r.template != nil {
			if preset, ok := MatchPreview(size, r.template.ScreenPresets, r.template.MaxScreenWidth); ok {
				r.previewPreset = &preset
			}
		}
		if !r.fullscreen {
			r.width = size.Width
			r.setup(ctx, true, false)
		}
	})
}

// Click forwards a click on a grid item (empty id: empty canvas) to the selection coordinator.
func (r *Reconciler) Click(ctx context.Context, gridItemID string) error {
	return r.submit(ctx, "click", func(ctx context.Context) {
		r.selection.Click(ctx, r.template, r.mountedItems(), gridItemID, r.static())
	})
}

// Selected returns the selected widget.
func (r *Reconciler) Selected() (DashboardWidget, bool) {
	return r.selection.Selected()
}

// State returns the lifecycle state.
func (r *Reconciler) State() State {
	return State(r.state.Load())
}

// View returns a copy of the published state.
func (r *Reconciler) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view := r.view
	view.Template = r.view.Template.Clone()
	view.State = r.State()
	return view
}

// Snapshot returns a copy of the current template, nil before the first assignment.
func (r *Reconciler) Snapshot() *DashboardTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view.Template.Clone()
}

// ActivePreset returns the preset resolved for the current width.
func (r *Reconciler) ActivePreset() (ScreenPreset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.view.Active == nil {
		return ScreenPreset{}, false
	}
	return *r.view.Active, true
}

// Preview returns the previewed preset (false for a custom size) and the preview size.
func (r *Reconciler) Preview() (ScreenPreset, PreviewSize, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.view.PreviewPreset == nil {
		return ScreenPreset{}, r.view.PreviewSize, false
	}
	return *r.view.PreviewPreset, r.view.PreviewSize, true
}

func (r *Reconciler) assign(ctx context.Context, next *DashboardTemplate) {
	prev := r.template
	r.template = next
	r.opts.Surface.Render(next)
	if prev == nil {
		r.initPreview()
		r.setup(ctx, false, false)
		return
	}
	changes, _ := Diff(prev, next)
	r.reconcile(ctx, changes)
	r.selection.Refresh(ctx, next, r.mountedItems())
}

func (r *Reconciler) reconcile(ctx context.Context, changes ChangeSet) {
	action := Decide(changes, r.engine != nil)
	r.log.Debug("canvas: reconcile",
		zap.Strings("changed", changes.ChangedKeys),
		zap.Stringer("action", action),
	)
	switch action {
	case ActionColumns:
		r.engine.Column(r.template.Columns)
		r.record(ctx, "canvas.reconcile.columns", map[string]any{"columns": r.template.Columns})
		r.setup(ctx, true, false)
	case ActionPatch:
		r.patch(ctx)
	case ActionRebuild:
		if changes.Has(FieldScreenPresets) {
			r.trackPreview(changes)
		}
		r.setup(ctx, true, true)
	}
}

// setup (re)initializes the engine against the surface's mount point. recreate
// destroys the current instance first; force adds the rebuild barrier.
func (r *Reconciler) setup(ctx context.Context, recreate, force bool) {
	defer r.setState(StateIdle)
	if r.template == nil {
		return
	}
	mount, ok := r.opts.Surface.Mount()
	if !ok {
		r.log.Debug("canvas: mount point missing, skipping setup")
		return
	}
	barrierDone := false
	if recreate && r.engine != nil {
		r.engine.Destroy(false)
		r.engine = nil
		if force {
			barrierDone = true
			if mount, ok = r.barrier(ctx); !ok {
				return
			}
		}
	}

	preset, ok := ResolveActive(r.width, r.template.ScreenPresets)
	if !ok {
		r.log.Warn("canvas: template has no screen presets", zap.String("template_id", r.template.ID))
		return
	}
	if r.active != nil && r.active.ScalingPreset != preset.ScalingPreset && !(recreate && force) {
		r.log.Debug("canvas: scaling preset changed, forcing rebuild",
			zap.String("from", string(r.active.ScalingPreset)),
			zap.String("to", string(preset.ScalingPreset)),
		)
		if r.engine != nil {
			r.engine.Destroy(false)
			r.engine = nil
		}
		barrierDone = true
		if mount, ok = r.barrier(ctx); !ok {
			return
		}
	}
	if r.engine != nil {
		r.engine.Destroy(false)
		r.engine = nil
	}
	r.active = &preset

	if barrierDone {
		r.record(ctx, "canvas.reconcile.rebuild", map[string]any{"preset": preset.ID})
	} else if recreate {
		r.record(ctx, "canvas.reconcile.light", map[string]any{"preset": preset.ID})
	}

	if preset.ScalingPreset == ScalingBlockDevice {
		r.log.Debug("canvas: device blocked by preset", zap.String("preset", preset.ID))
		return
	}
	r.initEngine(mount, preset)
}

// barrier shows the rebuilding placeholder and waits for a fresh mount point.
func (r *Reconciler) barrier(ctx context.Context) (MountPoint, bool) {
	r.setState(StateRebuildPending)
	done := r.opts.Surface.RequestRerender()
	ticker := time.NewTicker(r.timing.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(r.timing.BarrierTimeout)
	defer timeout.Stop()

wait:
	for {
		select {
		case <-done:
			break wait
		case <-ticker.C:
			if !r.opts.Surface.RerenderPending() {
				break wait
			}
		case <-timeout.C:
			r.log.Warn("canvas: rebuild barrier timed out, continuing with current mount point",
				zap.Duration("timeout", r.timing.BarrierTimeout),
			)
			r.record(ctx, "canvas.barrier.timeout", map[string]any{"timeout_ms": r.timing.BarrierTimeout.Milliseconds()})
			break wait
		case <-ctx.Done():
			return nil, false
		}
	}
	mount, ok := r.opts.Surface.Mount()
	if !ok {
		r.log.Debug("canvas: mount point missing after rebuild barrier")
	}
	return mount, ok
}

func (r *Reconciler) initEngine(mount MountPoint, preset ScreenPreset) {
	cfg := r.engineConfig(preset)
	engine, err := r.opts.Engines.Init(cfg, mount)
	if err != nil {
		r.log.Error("canvas: init layout engine",
			zap.String("mount", mount.ID()),
			zap.Error(err),
		)
		return
	}
	r.engine = engine
	handler := r.engineHandler(engine)
	for _, kind := range []EventKind{EventDropped, EventChange, EventResizeStart, EventResizeStop} {
		engine.On(kind, handler)
	}
	engine.Load(r.template.GridItems())
	r.selection.Highlight(engine.GridItems())
	r.log.Debug("canvas: layout engine initialized",
		zap.String("mount", mount.ID()),
		zap.String("preset", preset.ID),
		zap.Int("columns", cfg.Columns),
		zap.Bool("static", cfg.Static),
	)
}

func (r *Reconciler) engineConfig(preset ScreenPreset) EngineConfig {
	wrap := preset.ScalingPreset == ScalingWrapToSingleColumn
	cfg := EngineConfig{
		Columns:       r.template.Columns,
		Static:        wrap || !r.editMode,
		AcceptWidgets: r.editMode,
		OneColumnMode: wrap,
		Float:         true,
		Margin:        4,
		Animate:       true,
	}
	if wrap {
		cfg.CellHeight = float64(r.width) / 4
	}
	return cfg
}

func (r *Reconciler) engineHandler(engine Engine) EngineHandler {
	return func(ev EngineEvent) {
		r.post("engine."+string(ev.Kind), func(ctx context.Context) {
			if r.engine != engine {
				return
			}
			r.handleEngineEvent(ctx, ev)
		})
	}
}

func (r *Reconciler) handleEngineEvent(ctx context.Context, ev EngineEvent) {
	switch ev.Kind {
	case EventDropped:
		r.createWidget(ctx, ev)
	case EventChange:
		r.applyLayoutChange(ctx, ev.Items)
	case EventResizeStart:
		r.selection.DragStart()
	case EventResizeStop:
		r.selection.DragStop()
	}
}

// patch adopts mounted items the engine does not manage yet.
func (r *Reconciler) patch(ctx context.Context) {
	if r.engine == nil {
		return
	}
	r.setState(StatePatchPending)
	defer r.setState(StateIdle)
	pruned := r.pruneOrphans()
	adopted := 0
	for _, item := range r.engine.GridItems() {
		if item.Managed {
			continue
		}
		if err := r.engine.MakeWidget(item.Node); err != nil {
			r.log.Warn("canvas: adopt mounted item", zap.String("grid_item_id", item.GridItemID), zap.Error(err))
			continue
		}
		adopted++
	}
	r.record(ctx, "canvas.reconcile.patch", map[string]any{"adopted": adopted, "pruned": pruned})
}

// pruneOrphans removes mounted items whose widget left the template.
func (r *Reconciler) pruneOrphans() int {
	known := make(map[string]struct{}, len(r.template.Widgets))
	for _, w := range r.template.Widgets {
		known[w.ID] = struct{}{}
	}
	pruned := 0
	for _, item := range r.engine.GridItems() {
		if item.WidgetID == "" {
			continue
		}
		if _, ok := known[item.WidgetID]; ok {
			continue
		}
		r.engine.RemoveWidget(item.Node, true, false)
		pruned++
	}
	return pruned
}

// applyLayoutChange records moved/resized items without reconciling.
func (r *Reconciler) applyLayoutChange(ctx context.Context, items []GridItem) {
	if r.template == nil || len(items) == 0 {
		return
	}
	next := r.template.Clone()
	changed := false
	for _, item := range items {
		for idx := range next.Widgets {
			current := &next.Widgets[idx].GridItem
			if current.ID != item.ID {
				continue
			}
			if current.X != item.X || current.Y != item.Y || current.W != item.W || current.H != item.H {
				current.X, current.Y, current.W, current.H = item.X, item.Y, item.W, item.H
				changed = true
			}
		}
	}
	if !changed {
		return
	}
	r.template = next
	r.selection.Refresh(ctx, next, nil)
	r.notify(ctx, Event{Type: EventChanged, Template: next.Clone()})
}

func (r *Reconciler) initPreview() {
	preset, ok := InitialPreviewPreset(r.template.ScreenPresets)
	if !ok {
		r.previewPreset = nil
		return
	}
	r.applyPreview(preset)
}

func (r *Reconciler) applyPreview(preset ScreenPreset) {
	size, ok := PreviewSizeFor(preset.ID, r.template.ScreenPresets, r.template.MaxScreenWidth)
	if !ok {
		return
	}
	r.previewPreset = &preset
	r.previewSize = size
	if !r.fullscreen {
		r.width = size.Width
	}
}

// trackPreview keeps the preview preset pointing at the preset with the same id.
func (r *Reconciler) trackPreview(changes ChangeSet) {
	if r.previewPreset == nil || changes.OldValue == nil || changes.NewValue == nil {
		return
	}
	for _, preset := range ChangedPresets(changes.OldValue.ScreenPresets, changes.NewValue.ScreenPresets) {
		if preset.ID == r.previewPreset.ID {
			r.applyPreview(preset)
			return
		}
	}
	if _, ok := r.template.PresetByID(r.previewPreset.ID); !ok {
		r.initPreview()
	}
}

func (r *Reconciler) static() bool {
	if !r.editMode || r.active == nil {
		return true
	}
	return r.active.ScalingPreset != ScalingKeepLayout
}

func (r *Reconciler) mountedItems() []MountedItem {
	if r.engine == nil {
		return nil
	}
	return r.engine.GridItems()
}

func (r *Reconciler) columns() int {
	if r.engine != nil {
		return r.engine.ColumnCount()
	}
	if r.template != nil {
		return r.template.Columns
	}
	return 0
}

func (r *Reconciler) notify(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = r.opts.Now()
	}
	_ = r.events.Notify(ctx, event)
}

// flushEvents waits until the notifications queued so far were delivered.
func (r *Reconciler) flushEvents(ctx context.Context) error {
	return r.events.flush(ctx)
}

func (r *Reconciler) record(ctx context.Context, event string, payload map[string]any) {
	if r.template != nil {
		payload["template_id"] = r.template.ID
	}
	r.opts.Telemetry.Record(ctx, event, payload)
}

func (r *Reconciler) setState(s State) {
	r.state.Store(int32(s))
}

func (r *Reconciler) publish() {
	view := View{
		Template:    r.template,
		PreviewSize: r.previewSize,
		Width:       r.width,
		Columns:     r.columns(),
		EditMode:    r.editMode,
		Fullscreen:  r.fullscreen,
		Static:      r.static(),
		HasEngine:   r.engine != nil,
	}
	if r.active != nil {
		active := *r.active
		view.Active = &active
	}
	if r.previewPreset != nil {
		preview := *r.previewPreset
		view.PreviewPreset = &preview
	}
	r.mu.Lock()
	r.view = view
	r.mu.Unlock()
}
