package canvas

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type templateField struct {
	key   string
	value func(*DashboardTemplate) any
}

var templateFields = []templateField{
	{key: FieldID, value: func(t *DashboardTemplate) any { return t.ID }},
	{key: FieldDisplayName, value: func(t *DashboardTemplate) any { return t.DisplayName }},
	{key: FieldColumns, value: func(t *DashboardTemplate) any { return t.Columns }},
	{key: FieldMaxScreenWidth, value: func(t *DashboardTemplate) any { return t.MaxScreenWidth }},
	{key: FieldScreenPresets, value: func(t *DashboardTemplate) any { return t.ScreenPresets }},
	{key: FieldWidgets, value: func(t *DashboardTemplate) any { return t.Widgets }},
}

var equalityOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
	// Widget configs are opaque: values may hold unexported fields cmp cannot walk.
	cmp.FilterValues(func(a, b map[string]any) bool {
		return len(a) > 0 || len(b) > 0
	}, cmp.Comparer(equalConfig)),
}

// equalConfig compares two widget configs by their canonical JSON encoding, falling
// back to reflect.DeepEqual for values JSON cannot encode.
func equalConfig(a, b map[string]any) bool {
	left, errLeft := json.Marshal(a)
	right, errRight := json.Marshal(b)
	if errLeft != nil || errRight != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(left, right)
}

// Diff compares two template snapshots field by field. It returns false when old is
// nil: a first assignment is initial setup, not a reconciliation event.
func Diff(old, next *DashboardTemplate) (ChangeSet, bool) {
	if old == nil || next == nil {
		return ChangeSet{}, false
	}
	changes := ChangeSet{OldValue: old, NewValue: next}
	for _, field := range templateFields {
		if !cmp.Equal(field.value(old), field.value(next), equalityOptions...) {
			changes.ChangedKeys = append(changes.ChangedKeys, field.key)
		}
	}
	return changes, true
}

// ChangedPresets returns the presets of next whose breakpoint differs from the preset
// with the same id in old. Presets without a counterpart in old are included.
func ChangedPresets(old, next []ScreenPreset) []ScreenPreset {
	previous := make(map[string]int, len(old))
	for _, p := range old {
		previous[p.ID] = p.Breakpoint
	}
	var changed []ScreenPreset
	for _, p := range next {
		if bp, ok := previous[p.ID]; !ok || bp != p.Breakpoint {
			changed = append(changed, p)
		}
	}
	return changed
}
