// Package gridengine is an in-memory layout engine implementing the canvas engine
// lifecycle. The server and CLI use it to drive the reconciler without a browser.
package gridengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

var (
	errUnsupportedMount = errors.New("gridengine: mount point is not a *gridengine.Canvas")
	errUnsupportedNode  = errors.New("gridengine: node is not a *gridengine.Node")
	errDestroyed        = errors.New("gridengine: engine destroyed")
	errStatic           = errors.New("gridengine: grid is static")
	errNotAccepting     = errors.New("gridengine: grid does not accept dropped widgets")
	errUnknownItem      = errors.New("gridengine: unknown grid item")
)

// Factory initializes engines and keeps track of every instance it created.
type Factory struct {
	mu      sync.Mutex
	engines []*Engine
}

// NewFactory creates a factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Init attaches a new engine to mount.
func (f *Factory) Init(cfg canvas.EngineConfig, mount canvas.MountPoint) (canvas.Engine, error) {
	c, ok := mount.(*Canvas)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errUnsupportedMount, mount)
	}
	e := newEngine(cfg, c)
	f.mu.Lock()
	f.engines = append(f.engines, e)
	f.mu.Unlock()
	return e, nil
}

// Engines returns every engine created so far, oldest first.
func (f *Factory) Engines() []*Engine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Engine(nil), f.engines...)
}

// Current returns the most recently created engine that was not destroyed.
func (f *Factory) Current() (*Engine, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.engines) - 1; i >= 0; i-- {
		if !f.engines[i].Destroyed() {
			return f.engines[i], true
		}
	}
	return nil, false
}

// Engine is one layout engine instance attached to a Canvas.
type Engine struct {
	cfg   canvas.EngineConfig
	mount *Canvas

	mu        sync.Mutex
	columns   int
	managed   []*Node
	handlers  map[canvas.EventKind][]canvas.EngineHandler
	destroyed bool
}

func newEngine(cfg canvas.EngineConfig, mount *Canvas) *Engine {
	return &Engine{
		cfg:      cfg,
		mount:    mount,
		columns:  cfg.Columns,
		handlers: map[canvas.EventKind][]canvas.EngineHandler{},
	}
}

// Config returns the configuration the engine was initialized with.
func (e *Engine) Config() canvas.EngineConfig { return e.cfg }

// Mount returns the canvas the engine is attached to.
func (e *Engine) Mount() *Canvas { return e.mount }

// Destroy detaches the engine. With removeDOM the managed elements are unmounted too.
func (e *Engine) Destroy(removeDOM bool) {
	e.mu.Lock()
	managed := e.managed
	e.managed = nil
	e.handlers = map[canvas.EventKind][]canvas.EngineHandler{}
	e.destroyed = true
	e.mu.Unlock()
	if removeDOM {
		for _, n := range managed {
			e.mount.remove(n)
		}
	}
}

// Destroyed reports whether Destroy was called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Load positions the mounted elements of items and manages them. Items without an
// element get a fresh one.
func (e *Engine) Load(items []canvas.GridItem) {
	for _, item := range items {
		n, ok := e.mount.Node(item.ID)
		if !ok {
			n = newNode("", item)
			e.mount.add(n)
		}
		n.setItem(item)
		e.manage(n)
	}
}

// Column changes the column count in place.
func (e *Engine) Column(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.columns = n
}

// ColumnCount returns the current column count.
func (e *Engine) ColumnCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.columns
}

// MakeWidget adopts a mounted element as a managed widget.
func (e *Engine) MakeWidget(node canvas.Node) error {
	n, ok := node.(*Node)
	if !ok {
		return fmt.Errorf("%w: %T", errUnsupportedNode, node)
	}
	if e.Destroyed() {
		return errDestroyed
	}
	if !e.mount.contains(n) {
		return fmt.Errorf("%w: %s", errUnknownItem, n.GridItemID())
	}
	e.manage(n)
	return nil
}

// RemoveWidget stops managing node, unmounting it with removeDOM. triggerEvent is
// accepted for contract parity; the engine emits no removal event.
func (e *Engine) RemoveWidget(node canvas.Node, removeDOM, _ bool) {
	n, ok := node.(*Node)
	if !ok {
		return
	}
	e.mu.Lock()
	for i, existing := range e.managed {
		if existing == n {
			e.managed = append(e.managed[:i], e.managed[i+1:]...)
			break
		}
	}
	e.mu.Unlock()
	if removeDOM {
		e.mount.remove(n)
	}
}

// GridItems lists the mounted elements followed by managed elements that left the canvas.
func (e *Engine) GridItems() []canvas.MountedItem {
	e.mu.Lock()
	managed := make(map[*Node]bool, len(e.managed))
	for _, n := range e.managed {
		managed[n] = true
	}
	stale := append([]*Node(nil), e.managed...)
	e.mu.Unlock()

	var items []canvas.MountedItem
	for _, n := range e.mount.Nodes() {
		items = append(items, mountedItem(n, managed[n]))
		delete(managed, n)
	}
	for _, n := range stale {
		if managed[n] {
			items = append(items, mountedItem(n, true))
		}
	}
	return items
}

// On subscribes a handler.
func (e *Engine) On(kind canvas.EventKind, handler canvas.EngineHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], handler)
}

// Drop simulates dropping an external node of widgetType at x,y with size w,h.
func (e *Engine) Drop(widgetType string, x, y, w, h int) (*Node, error) {
	if e.Destroyed() {
		return nil, errDestroyed
	}
	if !e.cfg.AcceptWidgets {
		return nil, errNotAccepting
	}
	n := newNode("", canvas.GridItem{X: x, Y: y, W: w, H: h})
	e.mount.add(n)
	e.manage(n)
	e.emit(canvas.EngineEvent{
		Kind: canvas.EventDropped,
		Node: n,
		Dropped: &canvas.DropInfo{
			WidgetType: widgetType,
			X:          x, Y: y, W: w, H: h,
		},
	})
	return n, nil
}

// Move simulates the user dragging or resizing a managed item.
func (e *Engine) Move(gridItemID string, x, y, w, h int) error {
	if e.Destroyed() {
		return errDestroyed
	}
	if e.cfg.Static {
		return errStatic
	}
	n, ok := e.mount.Node(gridItemID)
	if !ok || !e.isManaged(n) {
		return fmt.Errorf("%w: %s", errUnknownItem, gridItemID)
	}
	e.emit(canvas.EngineEvent{Kind: canvas.EventResizeStart, Node: n})
	item := n.move(x, y, w, h)
	e.emit(canvas.EngineEvent{Kind: canvas.EventChange, Node: n, Items: []canvas.GridItem{item}})
	e.emit(canvas.EngineEvent{Kind: canvas.EventResizeStop, Node: n})
	return nil
}

// ManagedCount returns how many elements the engine manages.
func (e *Engine) ManagedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.managed)
}

func (e *Engine) manage(n *Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.managed {
		if existing == n {
			return
		}
	}
	e.managed = append(e.managed, n)
}

func (e *Engine) isManaged(n *Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.managed {
		if existing == n {
			return true
		}
	}
	return false
}

func (e *Engine) emit(ev canvas.EngineEvent) {
	e.mu.Lock()
	handlers := append([]canvas.EngineHandler(nil), e.handlers[ev.Kind]...)
	e.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func mountedItem(n *Node, managed bool) canvas.MountedItem {
	return canvas.MountedItem{
		GridItemID: n.GridItemID(),
		WidgetID:   n.WidgetID(),
		Managed:    managed,
		Node:       n,
	}
}
