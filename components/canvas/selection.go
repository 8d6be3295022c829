package canvas

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ActiveItemClass marks the mounted item of the selected widget.
const ActiveItemClass = "grid-stack-item-content__active"

// SelectionOptions configures a Selection.
type SelectionOptions struct {
	Notifier  Notifier
	Telemetry Telemetry
	Logger    *zap.Logger
	// Guard is how long clicks stay ignored after a drag or resize stops.
	Guard time.Duration
	Now   func() time.Time
}

// Selection tracks the selected widget and filters clicks that trail a drag. It reads
// mounted items and toggles their classes; it never drives the engine lifecycle.
type Selection struct {
	notifier  Notifier
	telemetry Telemetry
	log       *zap.Logger
	now       func() time.Time
	guard     *Debouncer

	mu            sync.Mutex
	selected      *DashboardWidget
	dragStartedAt time.Time
}

// NewSelection builds a Selection with safe defaults.
func NewSelection(opts SelectionOptions) *Selection {
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Guard <= 0 {
		opts.Guard = DefaultTiming().DragClickGuard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Selection{
		notifier:  opts.Notifier,
		telemetry: normalizeTelemetry(opts.Telemetry),
		log:       opts.Logger,
		now:       opts.Now,
		guard:     NewDebouncer(opts.Guard),
	}
}

// DragStart records the start of a drag or resize.
func (s *Selection) DragStart() {
	s.guard.Cancel()
	s.mu.Lock()
	s.dragStartedAt = s.now()
	s.mu.Unlock()
}

// DragStop clears the drag marker once the guard delay elapsed.
func (s *Selection) DragStop() {
	s.guard.Trigger(func() {
		s.mu.Lock()
		s.dragStartedAt = time.Time{}
		s.mu.Unlock()
	})
}

// Dragging reports whether clicks are currently treated as drag noise.
func (s *Selection) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dragStartedAt.IsZero()
}

// Selected returns a copy of the selected widget.
func (s *Selection) Selected() (DashboardWidget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return DashboardWidget{}, false
	}
	return s.selected.Clone(), true
}

// Click handles a click on a mounted grid item. An empty id is a click on the empty
// canvas and clears the selection.
func (s *Selection) Click(ctx context.Context, tpl *DashboardTemplate, items []MountedItem, gridItemID string, static bool) {
	if s.Dragging() {
		s.log.Debug("canvas: click ignored while dragging", zap.String("grid_item_id", gridItemID))
		return
	}
	if static {
		return
	}
	if gridItemID == "" {
		s.set(ctx, nil, items)
		return
	}
	widget, ok := tpl.WidgetByGridItem(gridItemID)
	if !ok {
		s.log.Debug("canvas: click on unknown grid item", zap.String("grid_item_id", gridItemID))
		return
	}
	s.mu.Lock()
	same := s.selected != nil && s.selected.GridItem.ID == gridItemID
	s.mu.Unlock()
	if same {
		return
	}
	s.set(ctx, &widget, items)
}

// Select makes widget the selection, emitting the usual notifications.
func (s *Selection) Select(ctx context.Context, widget DashboardWidget, items []MountedItem) {
	s.set(ctx, &widget, items)
}

// Clear drops the selection.
func (s *Selection) Clear(ctx context.Context, items []MountedItem) {
	s.set(ctx, nil, items)
}

// Highlight re-applies the active class after the mounted items were rebuilt.
func (s *Selection) Highlight(items []MountedItem) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	highlight(items, selected)
}

// Refresh swaps the selected widget for its copy in tpl, clearing the selection when
// the widget no longer exists.
func (s *Selection) Refresh(ctx context.Context, tpl *DashboardTemplate, items []MountedItem) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if selected == nil {
		return
	}
	widget, ok := tpl.WidgetByGridItem(selected.GridItem.ID)
	if !ok {
		s.set(ctx, nil, items)
		return
	}
	s.mu.Lock()
	s.selected = &widget
	s.mu.Unlock()
}

// Close stops the pending guard timer.
func (s *Selection) Close() {
	s.guard.Cancel()
}

func (s *Selection) set(ctx context.Context, next *DashboardWidget, items []MountedItem) {
	if next != nil {
		copied := next.Clone()
		next = &copied
	}
	s.mu.Lock()
	prev := s.selected
	s.selected = next
	s.mu.Unlock()

	highlight(items, next)
	if prev != nil {
		s.notify(ctx, Event{Type: EventDeselected, Widget: prev})
	}
	if next != nil {
		s.notify(ctx, Event{Type: EventSelected, Widget: next})
	}
	payload := map[string]any{}
	if prev != nil {
		payload["previous_widget_id"] = prev.ID
	}
	if next != nil {
		payload["widget_id"] = next.ID
	}
	s.telemetry.Record(ctx, "canvas.selection.change", payload)
}

func (s *Selection) notify(ctx context.Context, event Event) {
	event.OccurredAt = s.now()
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.log.Warn("canvas: notify", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func highlight(items []MountedItem, selected *DashboardWidget) {
	for _, item := range items {
		if item.Node == nil {
			continue
		}
		on := selected != nil && item.GridItemID == selected.GridItem.ID
		item.Node.ToggleClass(ActiveItemClass, on)
	}
}
