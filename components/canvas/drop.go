package canvas

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const defaultDropSize = 2

// createWidget turns a node dropped onto the canvas into a widget of the template.
func (r *Reconciler) createWidget(ctx context.Context, ev EngineEvent) {
	if ev.Node != nil {
		r.engine.RemoveWidget(ev.Node, true, false)
	}
	if r.template == nil || ev.Dropped == nil {
		r.log.Warn("canvas: drop ignored, no template or drop coordinates")
		return
	}
	widget := r.newWidget(*ev.Dropped)

	next := r.template.Clone()
	next.Widgets = append(next.Widgets, widget)
	r.assign(ctx, next)

	gridItem := widget.GridItem
	r.notify(ctx, Event{Type: EventWidgetDrop, GridItem: &gridItem})
	r.notify(ctx, Event{Type: EventChanged, Template: next.Clone()})
	created := widget.Clone()
	r.notify(ctx, Event{Type: EventCreated, Widget: &created})
	r.record(ctx, "canvas.widget.create", map[string]any{
		"widget_id":   widget.ID,
		"widget_type": widget.WidgetType,
	})
	r.selection.Select(ctx, widget, r.mountedItems())
}

func (r *Reconciler) newWidget(drop DropInfo) DashboardWidget {
	wt, known := r.opts.Catalog.WidgetType(drop.WidgetType)
	label := r.opts.Catalog.Label(drop.WidgetType)

	// Known types are sized by their catalog minimum; the dropped size only counts
	// for types the catalog cannot describe.
	w, h := drop.W, drop.H
	if known {
		w, h = wt.MinColumns, wt.MinRows
	}
	if w <= 0 {
		w = defaultDropSize
	}
	if h <= 0 {
		h = defaultDropSize
	}
	if w > r.template.Columns {
		w = r.template.Columns
	}

	config := cloneMap(wt.DefaultConfig)
	if known {
		if err := r.opts.ConfigValidator.Validate(wt, config); err != nil {
			r.log.Warn("canvas: default widget config rejected",
				zap.String("widget_type", wt.Code),
				zap.Error(err),
			)
			config = nil
		}
	} else {
		r.log.Debug("canvas: dropped unknown widget type", zap.String("widget_type", drop.WidgetType))
	}

	id := r.opts.NewID()
	return DashboardWidget{
		ID:           id,
		DisplayName:  nextDisplayName(r.template.Widgets, drop.WidgetType, label),
		WidgetType:   drop.WidgetType,
		WidgetConfig: config,
		GridItem: GridItem{
			ID:        r.opts.NewID(),
			X:         drop.X,
			Y:         drop.Y,
			W:         w,
			H:         h,
			MinPixelW: wt.MinPixelWidth,
			MinPixelH: wt.MinPixelHeight,
		},
	}
}

// nextDisplayName returns "<label> <n>" with the smallest n not used by a widget of
// the same type.
func nextDisplayName(widgets []DashboardWidget, widgetType, label string) string {
	taken := make(map[string]struct{})
	for _, w := range widgets {
		if w.WidgetType == widgetType {
			taken[w.DisplayName] = struct{}{}
		}
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s %d", label, n)
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}
