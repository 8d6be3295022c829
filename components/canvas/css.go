package canvas

import (
	"strconv"
	"strings"
	"sync"
)

// NativeColumns is the column count the layout engine styles out of the box.
const NativeColumns = 12

// ColumnOverflowCSS returns the width/left overrides the layout engine needs to lay
// out more than NativeColumns columns. It returns "" when no override is needed.
func ColumnOverflowCSS(columns int) string {
	if columns <= NativeColumns {
		return ""
	}
	step := 100 / float64(columns)
	var builder strings.Builder
	for i := 0; i <= columns; i++ {
		pct := formatPercent(100 - float64(columns-i)*step)
		idx := strconv.Itoa(i)
		builder.WriteString(`.grid-stack > .grid-stack-item[gs-w="` + idx + `"]:not(.ui-draggable-dragging):not(.ui-resizable-resizing) { width: ` + pct + "% !important; }\n")
		builder.WriteString(`.grid-stack > .grid-stack-item[gs-x="` + idx + `"]:not(.ui-draggable-dragging):not(.ui-resizable-resizing) { left: ` + pct + "% !important; }\n")
	}
	return builder.String()
}

func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// ColumnStyles memoizes ColumnOverflowCSS per column count.
type ColumnStyles struct {
	mu      sync.RWMutex
	entries map[int]string
}

// NewColumnStyles builds an empty cache.
func NewColumnStyles() *ColumnStyles {
	return &ColumnStyles{entries: make(map[int]string)}
}

// For returns the stylesheet for the column count, generating it once.
func (c *ColumnStyles) For(columns int) string {
	if columns <= NativeColumns {
		return ""
	}
	c.mu.RLock()
	css, ok := c.entries[columns]
	c.mu.RUnlock()
	if ok {
		return css
	}
	css = ColumnOverflowCSS(columns)
	c.mu.Lock()
	c.entries[columns] = css
	c.mu.Unlock()
	return css
}

// Len reports how many column counts are cached.
func (c *ColumnStyles) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
