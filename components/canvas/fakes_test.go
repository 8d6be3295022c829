package canvas

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTiming = Timing{
	PollInterval:       5 * time.Millisecond,
	BarrierTimeout:     60 * time.Millisecond,
	DragClickGuard:     20 * time.Millisecond,
	FullscreenDebounce: 20 * time.Millisecond,
}

type fakeNode struct {
	gridItemID string
	widgetID   string

	mu      sync.Mutex
	classes map[string]bool
}

func newFakeNode(gridItemID, widgetID string) *fakeNode {
	return &fakeNode{gridItemID: gridItemID, widgetID: widgetID, classes: map[string]bool{}}
}

func (n *fakeNode) ToggleClass(name string, on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.classes[name] = on
}

func (n *fakeNode) active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.classes[ActiveItemClass]
}

type fakeMount struct {
	id string

	mu    sync.Mutex
	nodes []*fakeNode
}

func (m *fakeMount) ID() string { return m.id }

func (m *fakeMount) SyncWidgets(widgets []DashboardWidget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keep := m.nodes[:0]
	present := map[string]bool{}
	for _, w := range widgets {
		present[w.ID] = true
	}
	seen := map[string]bool{}
	for _, n := range m.nodes {
		if n.widgetID == "" || present[n.widgetID] {
			keep = append(keep, n)
			seen[n.widgetID] = true
		}
	}
	m.nodes = keep
	for _, w := range widgets {
		if !seen[w.ID] {
			m.nodes = append(m.nodes, newFakeNode(w.GridItem.ID, w.ID))
		}
	}
}

func (m *fakeMount) add(n *fakeNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = append(m.nodes, n)
}

func (m *fakeMount) remove(n *fakeNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.nodes {
		if existing == n {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			return
		}
	}
}

func (m *fakeMount) list() []*fakeNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*fakeNode(nil), m.nodes...)
}

func (m *fakeMount) node(gridItemID string) *fakeNode {
	for _, n := range m.list() {
		if n.gridItemID == gridItemID {
			return n
		}
	}
	return nil
}

type removeCall struct {
	node      *fakeNode
	removeDOM bool
	trigger   bool
}

type fakeEngine struct {
	cfg   EngineConfig
	mount *fakeMount

	mu         sync.Mutex
	columns    int
	managed    map[*fakeNode]bool
	handlers   map[EventKind][]EngineHandler
	destroys   []bool
	loads      [][]GridItem
	columnOps  []int
	makeWidget int
	removes    []removeCall
}

func (e *fakeEngine) Destroy(removeDOM bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroys = append(e.destroys, removeDOM)
	e.handlers = map[EventKind][]EngineHandler{}
}

func (e *fakeEngine) Load(items []GridItem) {
	e.mu.Lock()
	e.loads = append(e.loads, append([]GridItem(nil), items...))
	e.mu.Unlock()
	for _, item := range items {
		n := e.mount.node(item.ID)
		if n == nil {
			n = newFakeNode(item.ID, "")
			e.mount.add(n)
		}
		e.mu.Lock()
		e.managed[n] = true
		e.mu.Unlock()
	}
}

func (e *fakeEngine) Column(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.columns = n
	e.columnOps = append(e.columnOps, n)
}

func (e *fakeEngine) ColumnCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.columns
}

func (e *fakeEngine) MakeWidget(node Node) error {
	n, ok := node.(*fakeNode)
	if !ok {
		return fmt.Errorf("unexpected node %T", node)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.makeWidget++
	e.managed[n] = true
	return nil
}

func (e *fakeEngine) RemoveWidget(node Node, removeDOM, trigger bool) {
	n, _ := node.(*fakeNode)
	e.mu.Lock()
	e.removes = append(e.removes, removeCall{node: n, removeDOM: removeDOM, trigger: trigger})
	delete(e.managed, n)
	e.mu.Unlock()
	if removeDOM {
		e.mount.remove(n)
	}
}

func (e *fakeEngine) GridItems() []MountedItem {
	nodes := e.mount.list()
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]MountedItem, 0, len(nodes))
	mounted := map[*fakeNode]bool{}
	for _, n := range nodes {
		mounted[n] = true
		items = append(items, MountedItem{GridItemID: n.gridItemID, WidgetID: n.widgetID, Managed: e.managed[n], Node: n})
	}
	// Managed nodes that left the mount are still known to the engine.
	for n := range e.managed {
		if !mounted[n] {
			items = append(items, MountedItem{GridItemID: n.gridItemID, WidgetID: n.widgetID, Managed: true, Node: n})
		}
	}
	return items
}

func (e *fakeEngine) On(kind EventKind, handler EngineHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], handler)
}

func (e *fakeEngine) emit(ev EngineEvent) {
	e.mu.Lock()
	handlers := append([]EngineHandler(nil), e.handlers[ev.Kind]...)
	e.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (e *fakeEngine) stats() (destroys []bool, columnOps []int, makeWidget int, loads int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]bool(nil), e.destroys...), append([]int(nil), e.columnOps...), e.makeWidget, len(e.loads)
}

type fakeFactory struct {
	mu      sync.Mutex
	engines []*fakeEngine
	err     error
}

func (f *fakeFactory) Init(cfg EngineConfig, mount MountPoint) (Engine, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := mount.(*fakeMount)
	if !ok {
		return nil, fmt.Errorf("unexpected mount %T", mount)
	}
	e := &fakeEngine{
		cfg:      cfg,
		mount:    m,
		columns:  cfg.Columns,
		managed:  map[*fakeNode]bool{},
		handlers: map[EventKind][]EngineHandler{},
	}
	f.mu.Lock()
	f.engines = append(f.engines, e)
	f.mu.Unlock()
	return e, nil
}

func (f *fakeFactory) all() []*fakeEngine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeEngine(nil), f.engines...)
}

func (f *fakeFactory) last(t *testing.T) *fakeEngine {
	t.Helper()
	engines := f.all()
	require.NotEmpty(t, engines, "expected an engine instance")
	return engines[len(engines)-1]
}

type fakeSurface struct {
	mu         sync.Mutex
	mount      *fakeMount
	generation int
	detached   bool
	hang       bool
	renders    int
	rerenders  int
	template   *DashboardTemplate
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{mount: &fakeMount{id: "mount-0"}}
}

func (s *fakeSurface) Mount() (MountPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil, false
	}
	return s.mount, true
}

func (s *fakeSurface) Render(tpl *DashboardTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	s.template = tpl
	if !s.detached {
		s.mount.SyncWidgets(tpl.Widgets)
	}
}

func (s *fakeSurface) RequestRerender() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rerenders++
	if s.hang {
		return nil
	}
	s.generation++
	s.mount = &fakeMount{id: fmt.Sprintf("mount-%d", s.generation)}
	if s.template != nil {
		s.mount.SyncWidgets(s.template.Widgets)
	}
	done := make(chan struct{})
	close(done)
	return done
}

func (s *fakeSurface) RerenderPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hang
}

func (s *fakeSurface) rerenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rerenders
}

func (s *fakeSurface) setDetached(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = v
}

func (s *fakeSurface) setHang(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hang = v
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	// flush, when set, waits for asynchronously delivered events before reads.
	flush func()
}

func (n *recordingNotifier) settle() {
	if n.flush != nil {
		n.flush()
	}
}

func (n *recordingNotifier) Notify(_ context.Context, event Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) types() []EventType {
	n.settle()
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]EventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

func (n *recordingNotifier) all() []Event {
	n.settle()
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func (n *recordingNotifier) reset() {
	n.settle()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

type telemetryEvent struct {
	name    string
	payload map[string]any
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []telemetryEvent
}

func (t *recordingTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, telemetryEvent{name: event, payload: payload})
}

func (t *recordingTelemetry) count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.events {
		if e.name == name {
			n++
		}
	}
	return n
}

type fakeStore struct {
	templates map[string]DashboardTemplate
	err       error
}

func (s fakeStore) Get(_ context.Context, id string) (DashboardTemplate, error) {
	if s.err != nil {
		return DashboardTemplate{}, s.err
	}
	tpl, ok := s.templates[id]
	if !ok {
		return DashboardTemplate{}, ErrTemplateNotFound
	}
	return tpl, nil
}

type recordingToaster struct {
	mu       sync.Mutex
	messages []string
}

func (t *recordingToaster) Toast(_ context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, message)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type harness struct {
	r         *Reconciler
	factory   *fakeFactory
	surface   *fakeSurface
	notifier  *recordingNotifier
	telemetry *recordingTelemetry
}

func newHarness(t *testing.T, configure func(*Options)) *harness {
	t.Helper()
	h := &harness{
		factory:   &fakeFactory{},
		surface:   newFakeSurface(),
		notifier:  &recordingNotifier{},
		telemetry: &recordingTelemetry{},
	}
	opts := Options{
		Engines:   h.factory,
		Surface:   h.surface,
		Notifier:  h.notifier,
		Telemetry: h.telemetry,
		Timing:    testTiming,
		EditMode:  true,
		NewID:     sequentialIDs(),
	}
	if configure != nil {
		configure(&opts)
	}
	r, err := NewReconciler(opts)
	require.NoError(t, err)
	h.r = r
	h.notifier.flush = func() { _ = r.flushEvents(context.Background()) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

// sync waits until every input queued so far, engine events included, was processed.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, h.r.submit(context.Background(), "sync", func(context.Context) {}))
}

func (h *harness) assign(t *testing.T, tpl DashboardTemplate) {
	t.Helper()
	require.NoError(t, h.r.SetTemplate(context.Background(), tpl))
}

func singlePresetTemplate() DashboardTemplate {
	return DashboardTemplate{
		ID:          "dash-1",
		DisplayName: "Operations",
		Columns:     12,
		ScreenPresets: []ScreenPreset{
			{ID: "large", DisplayName: "Large", Breakpoint: MaxBreakpoint, ScalingPreset: ScalingKeepLayout},
		},
		Widgets: []DashboardWidget{
			{ID: "w1", DisplayName: "KPI 1", WidgetType: "kpi", GridItem: GridItem{ID: "g1", X: 0, Y: 0, W: 2, H: 2}},
		},
	}
}

func responsiveTemplate() DashboardTemplate {
	tpl := singlePresetTemplate()
	tpl.ScreenPresets = []ScreenPreset{
		{ID: "mobile", DisplayName: "Mobile", Breakpoint: 600, ScalingPreset: ScalingWrapToSingleColumn},
		{ID: "large", DisplayName: "Large", Breakpoint: MaxBreakpoint, ScalingPreset: ScalingKeepLayout},
	}
	return tpl
}
