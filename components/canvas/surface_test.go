package canvas

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	mu    sync.Mutex
	calls []string
	data  []map[string]any
}

func (r *stubRenderer) Render(name string, data any, _ ...io.Writer) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	payload, _ := data.(map[string]any)
	r.data = append(r.data, payload)
	return "<" + name + ">", nil
}

func (r *stubRenderer) lastData() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[len(r.data)-1]
}

func newTestSurface(t *testing.T) (*HTMLSurface, *stubRenderer) {
	t.Helper()
	renderer := &stubRenderer{}
	surface, err := NewHTMLSurface(SurfaceOptions{Renderer: renderer})
	require.NoError(t, err)
	return surface, renderer
}

func TestHTMLSurfaceRerenderSwapsMount(t *testing.T) {
	surface, renderer := newTestSurface(t)
	first, ok := surface.Mount()
	require.True(t, ok)
	assert.Equal(t, "canvas-grid-0", first.ID())

	tpl := singlePresetTemplate()
	surface.Render(&tpl)
	done := surface.RequestRerender()
	select {
	case <-done:
	default:
		t.Fatal("rerender should complete synchronously")
	}

	second, ok := surface.Mount()
	require.True(t, ok)
	assert.Equal(t, "canvas-grid-1", second.ID())
	assert.False(t, surface.RerenderPending())
	assert.Equal(t, 1, surface.Generation())
	assert.Equal(t, "<placeholder.html>", surface.Placeholder())
	assert.Equal(t, "dash-1", renderer.lastData()["template_id"])
}

func TestHTMLSurfaceDetachAndAttach(t *testing.T) {
	surface, _ := newTestSurface(t)
	surface.Detach()
	_, ok := surface.Mount()
	assert.False(t, ok)

	surface.Attach()
	mount, ok := surface.Mount()
	require.True(t, ok)
	assert.Equal(t, "canvas-grid-1", mount.ID())

	surface.Attach()
	assert.Equal(t, 1, surface.Generation(), "attach is a no-op while attached")
}

func TestHTMLSurfaceSyncsWidgetHost(t *testing.T) {
	mounts := []*fakeMount{}
	surface, err := NewHTMLSurface(SurfaceOptions{
		Renderer: &stubRenderer{},
		NewMount: func(generation int) MountPoint {
			m := &fakeMount{id: "host"}
			mounts = append(mounts, m)
			return m
		},
	})
	require.NoError(t, err)

	tpl := singlePresetTemplate()
	surface.Render(&tpl)
	require.Len(t, mounts, 1)
	require.NotNil(t, mounts[0].node("g1"))

	surface.RequestRerender()
	require.Len(t, mounts, 2)
	assert.NotNil(t, mounts[1].node("g1"), "a fresh mount receives the current widgets")
}

func TestHTMLSurfacePageData(t *testing.T) {
	surface, renderer := newTestSurface(t)
	tpl := responsiveTemplate()
	tpl.Columns = 16
	tpl.Widgets = append(tpl.Widgets, DashboardWidget{
		ID: "w2", DisplayName: "Map 1", WidgetType: "map", GridItem: GridItem{ID: "g2", X: 2, Y: 1, W: 4, H: 3},
	})
	view := View{
		Template:      &tpl,
		Active:        &tpl.ScreenPresets[1],
		PreviewPreset: &tpl.ScreenPresets[1],
		PreviewSize:   PreviewSize{Width: 900, Height: 506},
		Width:         900,
		Columns:       16,
		EditMode:      true,
	}

	out, err := surface.Page(view, "g2")
	require.NoError(t, err)
	assert.Equal(t, "<canvas.html>", out)

	data := renderer.lastData()
	assert.Equal(t, "canvas-grid-0", data["mount_id"])
	assert.Equal(t, "dash-1", data["template_id"])
	assert.Equal(t, "Large", data["preview_preset"])
	assert.Equal(t, 506, data["preview_height"])
	assert.Equal(t, false, data["blocked"])
	assert.Equal(t, ColumnOverflowCSS(16), data["css"])

	widgets, ok := data["widgets"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, widgets, 2)
	assert.Equal(t, false, widgets[0]["selected"])
	assert.Equal(t, true, widgets[1]["selected"])
	assert.Equal(t, 4, widgets[1]["w"])
}

func TestHTMLSurfacePageBlockedTier(t *testing.T) {
	surface, renderer := newTestSurface(t)
	tpl := responsiveTemplate()
	tpl.ScreenPresets[0].ScalingPreset = ScalingBlockDevice
	_, err := surface.Page(View{Template: &tpl, Active: &tpl.ScreenPresets[0], Columns: 12}, "")
	require.NoError(t, err)
	assert.Equal(t, true, renderer.lastData()["blocked"])
	assert.Equal(t, "", renderer.lastData()["css"])
}
