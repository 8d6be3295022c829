package goadmin_test

import (
	"context"
	"io"
	"testing"

	core "github.com/goliatone/go-dashboard-canvas/components/canvas"
	canvaspkg "github.com/goliatone/go-dashboard-canvas/pkg/canvas"
	"github.com/goliatone/go-dashboard-canvas/pkg/goadmin"
)

type stubMenuBuilder struct {
	calls int
	item  goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.calls++
	s.item = item
	return nil
}

type nopRenderer struct{}

func (nopRenderer) Render(name string, _ any, _ ...io.Writer) (string, error) { return name, nil }

func newCanvas(t *testing.T, store core.TemplateStore) *canvaspkg.Canvas {
	t.Helper()
	c, err := canvaspkg.New(canvaspkg.Config{Renderer: nopRenderer{}, Store: store})
	if err != nil {
		t.Fatalf("canvas.New returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableCanvas: true,
		Canvas:       newCanvas(t, nil),
		MenuBuilder:  builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 1 {
		t.Fatalf("expected 1 call, got %d", builder.calls)
	}
	if builder.item.Route != "admin.canvas" {
		t.Fatalf("expected default route, got %q", builder.item.Route)
	}
	if admin.Canvas() == nil {
		t.Fatalf("expected canvas")
	}
}

func TestAdminBootstrapLoadsDefaultDashboard(t *testing.T) {
	store := core.NewInMemoryTemplateStore(core.DashboardTemplate{
		ID:      "lobby",
		Columns: 12,
		ScreenPresets: []core.ScreenPreset{
			{ID: "all", Breakpoint: core.MaxBreakpoint, ScalingPreset: core.ScalingKeepLayout},
		},
	})
	admin, err := goadmin.New(goadmin.Config{
		EnableCanvas:       true,
		Canvas:             newCanvas(t, store),
		DefaultDashboardID: "lobby",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	snapshot := admin.Canvas().Reconciler.Snapshot()
	if snapshot == nil || snapshot.ID != "lobby" {
		t.Fatalf("expected lobby template to be mounted, got %+v", snapshot)
	}
}

func TestAdminRequiresCanvasWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableCanvas: true}); err == nil {
		t.Fatalf("expected error without canvas")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableCanvas: false,
		MenuBuilder:  builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 0 {
		t.Fatalf("expected 0 calls, got %d", builder.calls)
	}
	if admin.Canvas() != nil {
		t.Fatalf("expected nil canvas when disabled")
	}
}
