package canvas

import (
	"errors"
	"fmt"
	"sort"
)

var (
	errNilTemplate      = errors.New("canvas: template is nil")
	errInvalidColumns   = errors.New("canvas: columns must be at least 1")
	errNoScreenPresets  = errors.New("canvas: at least one screen preset is required")
	errMissingUnbounded = errors.New("canvas: exactly one screen preset must carry the max breakpoint")
)

// Clone returns a deep copy of the template.
func (t *DashboardTemplate) Clone() *DashboardTemplate {
	if t == nil {
		return nil
	}
	out := *t
	if t.ScreenPresets != nil {
		out.ScreenPresets = append([]ScreenPreset(nil), t.ScreenPresets...)
	}
	if t.Widgets != nil {
		out.Widgets = make([]DashboardWidget, len(t.Widgets))
		for i, w := range t.Widgets {
			out.Widgets[i] = w.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the widget.
func (w DashboardWidget) Clone() DashboardWidget {
	w.WidgetConfig = cloneMap(w.WidgetConfig)
	return w
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// Validate checks the template invariants.
func (t *DashboardTemplate) Validate() error {
	if t == nil {
		return errNilTemplate
	}
	var errs error
	if t.Columns < 1 {
		errs = errors.Join(errs, errInvalidColumns)
	}
	if len(t.ScreenPresets) == 0 {
		errs = errors.Join(errs, errNoScreenPresets)
	}
	seen := make(map[int]string, len(t.ScreenPresets))
	unbounded := 0
	for _, p := range t.ScreenPresets {
		if other, ok := seen[p.Breakpoint]; ok {
			errs = errors.Join(errs, fmt.Errorf("canvas: presets %s and %s share breakpoint %d", other, p.ID, p.Breakpoint))
		}
		seen[p.Breakpoint] = p.ID
		if p.Unbounded() {
			unbounded++
		}
		switch p.ScalingPreset {
		case ScalingKeepLayout, ScalingWrapToSingleColumn, ScalingBlockDevice:
		default:
			errs = errors.Join(errs, fmt.Errorf("canvas: preset %s has unknown scaling preset %q", p.ID, p.ScalingPreset))
		}
	}
	if len(t.ScreenPresets) > 1 && unbounded != 1 {
		errs = errors.Join(errs, errMissingUnbounded)
	}
	ids := make(map[string]struct{}, len(t.Widgets))
	for idx, w := range t.Widgets {
		if w.ID == "" {
			errs = errors.Join(errs, fmt.Errorf("canvas: widget at index %d is missing an id", idx))
			continue
		}
		if _, dup := ids[w.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("canvas: duplicate widget id %s", w.ID))
		}
		ids[w.ID] = struct{}{}
	}
	return errs
}

// GridItems returns the grid items of every widget, in widget order.
func (t *DashboardTemplate) GridItems() []GridItem {
	if t == nil {
		return nil
	}
	items := make([]GridItem, 0, len(t.Widgets))
	for _, w := range t.Widgets {
		items = append(items, w.GridItem)
	}
	return items
}

// WidgetByGridItem finds the widget owning the grid item id.
func (t *DashboardTemplate) WidgetByGridItem(gridItemID string) (DashboardWidget, bool) {
	if t == nil || gridItemID == "" {
		return DashboardWidget{}, false
	}
	for _, w := range t.Widgets {
		if w.GridItem.ID == gridItemID {
			return w, true
		}
	}
	return DashboardWidget{}, false
}

// PresetByID finds a screen preset by id.
func (t *DashboardTemplate) PresetByID(id string) (ScreenPreset, bool) {
	if t == nil {
		return ScreenPreset{}, false
	}
	for _, p := range t.ScreenPresets {
		if p.ID == id {
			return p, true
		}
	}
	return ScreenPreset{}, false
}

// SortPresets returns a sorted copy of presets, ascending or descending by breakpoint.
func SortPresets(presets []ScreenPreset, ascending bool) []ScreenPreset {
	sorted := append([]ScreenPreset(nil), presets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].Breakpoint < sorted[j].Breakpoint
		}
		return sorted[i].Breakpoint > sorted[j].Breakpoint
	})
	return sorted
}
