package canvas

import (
	"context"
	"time"
)

// MaxBreakpoint marks the unbounded (largest) screen preset of a template.
const MaxBreakpoint = 1000000

// ScalingPreset selects the layout strategy applied at a breakpoint.
type ScalingPreset string

const (
	// ScalingKeepLayout keeps the multi-column layout.
	ScalingKeepLayout ScalingPreset = "KEEP_LAYOUT"
	// ScalingWrapToSingleColumn collapses the grid into one static column.
	ScalingWrapToSingleColumn ScalingPreset = "WRAP_TO_SINGLE_COLUMN"
	// ScalingBlockDevice hides the grid on the tier.
	ScalingBlockDevice ScalingPreset = "BLOCK_DEVICE"
)

// Top-level template field names reported by the change detector.
const (
	FieldID             = "id"
	FieldDisplayName    = "displayName"
	FieldColumns        = "columns"
	FieldMaxScreenWidth = "maxScreenWidth"
	FieldScreenPresets  = "screenPresets"
	FieldWidgets        = "widgets"
)

// DashboardTemplate is the root aggregate describing a dashboard canvas. Snapshots
// are replaced wholesale; the reconciler never mutates a snapshot it handed out.
type DashboardTemplate struct {
	ID             string            `json:"id" yaml:"id"`
	DisplayName    string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Columns        int               `json:"columns" yaml:"columns"`
	MaxScreenWidth int               `json:"maxScreenWidth,omitempty" yaml:"maxScreenWidth,omitempty"`
	ScreenPresets  []ScreenPreset    `json:"screenPresets" yaml:"screenPresets"`
	Widgets        []DashboardWidget `json:"widgets" yaml:"widgets"`
}

// ScreenPreset is one responsive tier of a template.
type ScreenPreset struct {
	ID            string        `json:"id" yaml:"id"`
	DisplayName   string        `json:"displayName" yaml:"displayName"`
	Breakpoint    int           `json:"breakpoint" yaml:"breakpoint"`
	ScalingPreset ScalingPreset `json:"scalingPreset" yaml:"scalingPreset"`
}

// Unbounded reports whether the preset is the largest (no upper bound) tier.
func (p ScreenPreset) Unbounded() bool {
	return p.Breakpoint == MaxBreakpoint
}

// DashboardWidget is a widget placed on the canvas. WidgetConfig is opaque to the core.
type DashboardWidget struct {
	ID           string         `json:"id" yaml:"id"`
	DisplayName  string         `json:"displayName" yaml:"displayName"`
	WidgetType   string         `json:"widgetTypeId" yaml:"widgetTypeId"`
	WidgetConfig map[string]any `json:"widgetConfig,omitempty" yaml:"widgetConfig,omitempty"`
	GridItem     GridItem       `json:"gridItem" yaml:"gridItem"`
}

// GridItem is the position/size record of a widget in grid coordinates.
type GridItem struct {
	ID        string `json:"id" yaml:"id"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
	W         int    `json:"w" yaml:"w"`
	H         int    `json:"h" yaml:"h"`
	MinPixelW int    `json:"minPixelW,omitempty" yaml:"minPixelW,omitempty"`
	MinPixelH int    `json:"minPixelH,omitempty" yaml:"minPixelH,omitempty"`
}

// ChangeSet lists the top-level template fields that differ between two snapshots.
type ChangeSet struct {
	ChangedKeys []string
	OldValue    *DashboardTemplate
	NewValue    *DashboardTemplate
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c.ChangedKeys) == 0
}

// Has reports whether key is among the changed keys.
func (c ChangeSet) Has(key string) bool {
	for _, k := range c.ChangedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Only reports whether key is the single changed key.
func (c ChangeSet) Only(key string) bool {
	return len(c.ChangedKeys) == 1 && c.ChangedKeys[0] == key
}

// EventKind names engine notifications.
type EventKind string

const (
	EventDropped     EventKind = "dropped"
	EventChange      EventKind = "change"
	EventResizeStart EventKind = "resizestart"
	EventResizeStop  EventKind = "resizestop"
)

// EngineEvent is delivered by the layout engine to subscribed handlers.
type EngineEvent struct {
	Kind EventKind
	// Node is the transient dropped node (dropped) or the resized node.
	Node Node
	// Dropped carries the drop coordinates and the widget type tag of the dropped node.
	Dropped *DropInfo
	// Items carries the moved/resized items (change).
	Items []GridItem
}

// DropInfo describes an external node dropped onto the canvas.
type DropInfo struct {
	WidgetType string
	X, Y, W, H int
}

// EngineHandler receives engine notifications.
type EngineHandler func(EngineEvent)

// Node is an opaque handle to an element mounted in the layout engine.
type Node interface {
	ToggleClass(name string, on bool)
}

// MountedItem is an element currently mounted in the engine.
type MountedItem struct {
	// GridItemID is the engine node id (the widget's GridItem id).
	GridItemID string
	// WidgetID is the id of the rendered widget element.
	WidgetID string
	// Managed reports whether the engine already adopted the element as a draggable widget.
	Managed bool
	Node    Node
}

// MountPoint is the element a layout engine instance attaches to.
type MountPoint interface {
	ID() string
}

// EngineConfig is derived from the active preset on every (re)initialization.
type EngineConfig struct {
	Columns int
	// CellHeight is a pixel height; zero means intrinsic/auto height.
	CellHeight float64
	// Static disables drag/resize.
	Static bool
	// AcceptWidgets allows external nodes to be dropped on the grid.
	AcceptWidgets bool
	// OneColumnMode lets the engine collapse to a single column on narrow widths.
	OneColumnMode bool
	Float         bool
	Margin        int
	Animate       bool
}

// Engine is the per-instance lifecycle contract of the external layout engine.
type Engine interface {
	Destroy(removeDOM bool)
	Load(items []GridItem)
	Column(n int)
	ColumnCount() int
	MakeWidget(node Node) error
	RemoveWidget(node Node, removeDOM, triggerEvent bool)
	GridItems() []MountedItem
	On(kind EventKind, handler EngineHandler)
}

// EngineFactory initializes engine instances against a mount point.
type EngineFactory interface {
	Init(cfg EngineConfig, mount MountPoint) (Engine, error)
}

// EngineFactoryFunc adapts a function into an EngineFactory.
type EngineFactoryFunc func(cfg EngineConfig, mount MountPoint) (Engine, error)

// Init calls f.
func (f EngineFactoryFunc) Init(cfg EngineConfig, mount MountPoint) (Engine, error) {
	return f(cfg, mount)
}

// Surface is the hosting rendering surface that owns the mount point.
type Surface interface {
	// Mount returns the current mount point, false while detached.
	Mount() (MountPoint, bool)
	// Render runs the surface render pass for a snapshot.
	Render(tpl *DashboardTemplate)
	// RequestRerender shows the rebuilding placeholder; the returned channel is closed
	// once the placeholder was shown and cleared and a fresh mount point exists.
	RequestRerender() <-chan struct{}
	// RerenderPending reports whether the placeholder is still pending.
	RerenderPending() bool
}

// TemplateStore loads dashboard templates from persistence.
type TemplateStore interface {
	Get(ctx context.Context, dashboardID string) (DashboardTemplate, error)
}

// Toaster surfaces transient user-visible notifications.
type Toaster interface {
	Toast(ctx context.Context, message string)
}

// EventType names outbound notifications.
type EventType string

const (
	EventChanged    EventType = "changed"
	EventWidgetDrop EventType = "dropped"
	EventSelected   EventType = "selected"
	EventDeselected EventType = "deselected"
	EventCreated    EventType = "created"
)

// Event is an outbound notification consumed by the hosting surface and settings panels.
type Event struct {
	Type       EventType          `json:"type"`
	Template   *DashboardTemplate `json:"template,omitempty"`
	GridItem   *GridItem          `json:"gridItem,omitempty"`
	Widget     *DashboardWidget   `json:"widget,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// Notifier receives outbound notifications. The reconciler calls it from a dedicated
// delivery goroutine, never from its loop, so Notify may call back into the reconciler
// (e.g. assign the changed template back). Notify blocking delays later notifications.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// WidgetHost is implemented by mount points that hold the rendered widget elements.
type WidgetHost interface {
	MountPoint
	SyncWidgets(widgets []DashboardWidget)
}
