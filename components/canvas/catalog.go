package canvas

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// WidgetType describes a widget kind that can be dropped onto the canvas.
type WidgetType struct {
	Code           string         `json:"code" yaml:"code"`
	Label          string         `json:"label" yaml:"label"`
	Icon           string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	MinColumns     int            `json:"minColumns" yaml:"minColumns"`
	MinRows        int            `json:"minRows" yaml:"minRows"`
	MinPixelWidth  int            `json:"minPixelWidth,omitempty" yaml:"minPixelWidth,omitempty"`
	MinPixelHeight int            `json:"minPixelHeight,omitempty" yaml:"minPixelHeight,omitempty"`
	DefaultConfig  map[string]any `json:"defaultConfig,omitempty" yaml:"defaultConfig,omitempty"`
	Schema         map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// WidgetCatalog resolves widget types by code.
type WidgetCatalog interface {
	WidgetType(code string) (WidgetType, bool)
	Label(code string) string
}

// Catalog is the default concurrency-safe WidgetCatalog.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]WidgetType
}

// NewCatalog builds a catalog seeded with the given types.
func NewCatalog(types ...WidgetType) *Catalog {
	c := &Catalog{types: map[string]WidgetType{}}
	for _, t := range types {
		_ = c.Register(t)
	}
	return c
}

// NewDefaultCatalog builds a catalog with the built-in widget types.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultWidgetTypes()...)
}

// Register stores a widget type, replacing any type with the same code.
func (c *Catalog) Register(t WidgetType) error {
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("canvas: widget type code is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Code] = t
	return nil
}

// WidgetType fetches a widget type by code.
func (c *Catalog) WidgetType(code string) (WidgetType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[code]
	return t, ok
}

// Label returns the human label of a widget type, deriving one from the code when the
// type is unknown or unlabeled.
func (c *Catalog) Label(code string) string {
	if t, ok := c.WidgetType(code); ok && t.Label != "" {
		return t.Label
	}
	return humanizeCode(code)
}

// Types returns all registered types sorted by code.
func (c *Catalog) Types() []WidgetType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]WidgetType, 0, len(c.types))
	for _, t := range c.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func humanizeCode(code string) string {
	code = strings.TrimSpace(code)
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		code = code[idx+1:]
	}
	if code == "" {
		return "Widget"
	}
	return strcase.ToCase(code, strcase.TitleCase, ' ')
}

// DefaultWidgetTypes returns the built-in widget types.
func DefaultWidgetTypes() []WidgetType {
	return []WidgetType{
		{
			Code: "linechart", Label: "Line Chart", Icon: "chart-bell-curve-cumulative",
			MinColumns: 2, MinRows: 2, MinPixelWidth: 160, MinPixelHeight: 160,
			DefaultConfig: map[string]any{"period": "day", "showLegend": true, "attributeRefs": []any{}},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"period":        map[string]any{"type": "string", "enum": []any{"hour", "day", "week", "month", "year"}},
					"showLegend":    map[string]any{"type": "boolean"},
					"attributeRefs": map[string]any{"type": "array"},
				},
			},
		},
		{
			Code: "kpi", Label: "KPI", Icon: "label",
			MinColumns: 1, MinRows: 1, MinPixelWidth: 96, MinPixelHeight: 96,
			DefaultConfig: map[string]any{"period": "day", "deltaFormat": "absolute", "decimals": 0},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"period":      map[string]any{"type": "string"},
					"deltaFormat": map[string]any{"type": "string", "enum": []any{"absolute", "percentage"}},
					"decimals":    map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
		{
			Code: "map", Label: "Map", Icon: "map",
			MinColumns: 2, MinRows: 2, MinPixelWidth: 192, MinPixelHeight: 192,
			DefaultConfig: map[string]any{"zoom": 14, "showLabels": false},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"zoom":       map[string]any{"type": "integer", "minimum": 0, "maximum": 22},
					"showLabels": map[string]any{"type": "boolean"},
				},
			},
		},
		{
			Code: "gauge", Label: "Gauge", Icon: "gauge",
			MinColumns: 1, MinRows: 1, MinPixelWidth: 96, MinPixelHeight: 96,
			DefaultConfig: map[string]any{"min": 0, "max": 100},
		},
		{
			Code: "attributeinput", Label: "Attribute", Icon: "form-textbox",
			MinColumns: 2, MinRows: 1, MinPixelWidth: 128, MinPixelHeight: 64,
			DefaultConfig: map[string]any{"readonly": false, "showHelperText": true},
		},
		{
			Code: "table", Label: "Table", Icon: "table",
			MinColumns: 2, MinRows: 2, MinPixelWidth: 192, MinPixelHeight: 128,
		},
	}
}
