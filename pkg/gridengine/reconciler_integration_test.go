package gridengine_test

import (
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/pkg/gridengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRenderer struct{}

func (nopRenderer) Render(name string, _ any, _ ...io.Writer) (string, error) { return name, nil }

func startReconciler(t *testing.T, factory *gridengine.Factory) *canvas.Reconciler {
	t.Helper()
	surface, err := canvas.NewHTMLSurface(canvas.SurfaceOptions{
		Renderer: nopRenderer{},
		NewMount: func(generation int) canvas.MountPoint {
			return gridengine.NewCanvas("grid-" + strconv.Itoa(generation))
		},
	})
	require.NoError(t, err)
	r, err := canvas.NewReconciler(canvas.Options{
		Engines:  factory,
		Surface:  surface,
		EditMode: true,
		Timing: canvas.Timing{
			PollInterval:       5 * time.Millisecond,
			BarrierTimeout:     100 * time.Millisecond,
			DragClickGuard:     10 * time.Millisecond,
			FullscreenDebounce: 10 * time.Millisecond,
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return r
}

func plantTemplate() canvas.DashboardTemplate {
	return canvas.DashboardTemplate{
		ID:      "plant",
		Columns: 12,
		ScreenPresets: []canvas.ScreenPreset{
			{ID: "mobile", Breakpoint: 600, ScalingPreset: canvas.ScalingWrapToSingleColumn},
			{ID: "large", Breakpoint: canvas.MaxBreakpoint, ScalingPreset: canvas.ScalingKeepLayout},
		},
		Widgets: []canvas.DashboardWidget{
			{ID: "w1", DisplayName: "KPI 1", WidgetType: "kpi", GridItem: canvas.GridItem{ID: "g1", W: 2, H: 2}},
		},
	}
}

// editableCanvas mounts the plant template previewed at the large tier.
func editableCanvas(t *testing.T, factory *gridengine.Factory) *canvas.Reconciler {
	t.Helper()
	r := startReconciler(t, factory)
	ctx := context.Background()
	require.NoError(t, r.SetTemplate(ctx, plantTemplate()))
	require.NoError(t, r.SetPreviewPreset(ctx, "large"))
	return r
}

func TestReconcilerDropRoundTrip(t *testing.T) {
	factory := gridengine.NewFactory()
	r := editableCanvas(t, factory)

	engine, ok := factory.Current()
	require.True(t, ok)
	assert.Equal(t, 1, engine.ManagedCount())
	assert.True(t, engine.Config().AcceptWidgets)

	_, err := engine.Drop("map", 4, 0, 0, 0)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(r.Snapshot().Widgets) == 2
	}, time.Second, time.Millisecond)

	created := r.Snapshot().Widgets[1]
	assert.Equal(t, "Map 1", created.DisplayName)
	assert.Equal(t, 4, created.GridItem.X)
	assert.Equal(t, 2, created.GridItem.W)

	assert.Equal(t, 2, engine.ManagedCount())
	assert.Len(t, engine.Mount().Nodes(), 2, "the transient drop node is gone")
	node, ok := engine.Mount().Node(created.GridItem.ID)
	require.True(t, ok)
	assert.True(t, node.HasClass(canvas.ActiveItemClass))

	selected, ok := r.Selected()
	require.True(t, ok)
	assert.Equal(t, created.ID, selected.ID)
	assert.Len(t, factory.Engines(), 2, "the drop patched the large-tier engine in place")
}

func TestReconcilerFollowsEngineMoves(t *testing.T) {
	factory := gridengine.NewFactory()
	r := editableCanvas(t, factory)

	engine, ok := factory.Current()
	require.True(t, ok)
	require.NoError(t, engine.Move("g1", 5, 3, 2, 2))
	require.Eventually(t, func() bool {
		return r.Snapshot().Widgets[0].GridItem.X == 5
	}, time.Second, time.Millisecond)
	assert.Equal(t, 3, r.Snapshot().Widgets[0].GridItem.Y)
}

func TestReconcilerRebuildsAcrossScalingPresets(t *testing.T) {
	factory := gridengine.NewFactory()
	r := startReconciler(t, factory)
	ctx := context.Background()
	require.NoError(t, r.SetTemplate(ctx, plantTemplate()))

	initial := r.View()
	require.NotNil(t, initial.Active)
	assert.Equal(t, "mobile", initial.Active.ID, "the largest finite tier is previewed first")
	assert.True(t, initial.Static)

	require.NoError(t, r.SetPreviewPreset(ctx, "large"))
	assert.Equal(t, 900, r.View().Width)
	require.Len(t, factory.Engines(), 2)
	assert.True(t, factory.Engines()[0].Destroyed())

	require.NoError(t, r.SetFullscreen(ctx, true))
	require.NoError(t, r.Resize(ctx, 500))
	view := r.View()
	require.NotNil(t, view.Active)
	assert.Equal(t, "mobile", view.Active.ID)
	assert.True(t, view.Static)

	engine, ok := factory.Current()
	require.True(t, ok)
	assert.Len(t, factory.Engines(), 3)
	assert.True(t, engine.Config().OneColumnMode)
	assert.Equal(t, 125.0, engine.Config().CellHeight)
	assert.Equal(t, 1, engine.ManagedCount())
}
