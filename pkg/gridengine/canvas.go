package gridengine

import (
	"sort"
	"sync"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

// Canvas is an in-memory mount point holding the rendered widget elements.
type Canvas struct {
	id string

	mu    sync.Mutex
	nodes []*Node
}

// NewCanvas creates an empty mount point.
func NewCanvas(id string) *Canvas {
	return &Canvas{id: id}
}

// ID returns the mount point id.
func (c *Canvas) ID() string { return c.id }

// SyncWidgets renders one element per widget: existing elements are kept, new
// widgets get a fresh element and elements of removed widgets are detached.
func (c *Canvas) SyncWidgets(widgets []canvas.DashboardWidget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing := make(map[string]*Node, len(c.nodes))
	for _, n := range c.nodes {
		if n.widgetID != "" {
			existing[n.widgetID] = n
		}
	}
	nodes := make([]*Node, 0, len(widgets))
	for _, w := range widgets {
		n, ok := existing[w.ID]
		if !ok {
			n = newNode(w.ID, w.GridItem)
		}
		n.setItem(w.GridItem)
		nodes = append(nodes, n)
		delete(existing, w.ID)
	}
	// Transient elements (drops in progress) stay mounted.
	for _, n := range c.nodes {
		if n.widgetID == "" {
			nodes = append(nodes, n)
		}
	}
	c.nodes = nodes
}

// Nodes returns the mounted elements in render order.
func (c *Canvas) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Node(nil), c.nodes...)
}

// Node finds a mounted element by grid item id.
func (c *Canvas) Node(gridItemID string) (*Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.nodes {
		if n.GridItemID() == gridItemID {
			return n, true
		}
	}
	return nil, false
}

func (c *Canvas) add(n *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, n)
}

func (c *Canvas) remove(n *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.nodes {
		if existing == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}

func (c *Canvas) contains(n *Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.nodes {
		if existing == n {
			return true
		}
	}
	return false
}

// Node is an in-memory element mounted in a Canvas.
type Node struct {
	widgetID string

	mu      sync.Mutex
	item    canvas.GridItem
	classes map[string]bool
}

func newNode(widgetID string, item canvas.GridItem) *Node {
	return &Node{widgetID: widgetID, item: item, classes: map[string]bool{}}
}

// WidgetID returns the id of the widget the element renders, empty for transient nodes.
func (n *Node) WidgetID() string { return n.widgetID }

// GridItemID returns the engine node id.
func (n *Node) GridItemID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.item.ID
}

// Item returns the element's grid position.
func (n *Node) Item() canvas.GridItem {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.item
}

// ToggleClass adds or removes a CSS class.
func (n *Node) ToggleClass(name string, on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if on {
		n.classes[name] = true
		return
	}
	delete(n.classes, name)
}

// HasClass reports whether the class is set.
func (n *Node) HasClass(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.classes[name]
}

// Classes returns the set classes, sorted.
func (n *Node) Classes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.classes))
	for name := range n.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (n *Node) setItem(item canvas.GridItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.item = item
}

func (n *Node) move(x, y, w, h int) canvas.GridItem {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.item.X, n.item.Y, n.item.W, n.item.H = x, y, w, h
	return n.item
}
