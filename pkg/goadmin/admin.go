package goadmin

import (
	"context"
	"errors"

	core "github.com/goliatone/go-dashboard-canvas/components/canvas"
	canvaspkg "github.com/goliatone/go-dashboard-canvas/pkg/canvas"
)

// MenuBuilder ensures canvas entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures canvas link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the canvas builder + feature flags into an admin shell.
type Config struct {
	EnableCanvas    bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Canvas          *canvaspkg.Canvas
	DefaultMenuItem MenuItem
	// DefaultDashboardID is loaded into the canvas during Bootstrap when set.
	DefaultDashboardID string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed canvas menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableCanvas && cfg.Canvas == nil {
		return nil, errors.New("goadmin: canvas is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard Builder"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.canvas"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "layout"
	}
	return &Admin{cfg: cfg}, nil
}

// Canvas exposes the configured canvas when enabled.
func (a *Admin) Canvas() *canvaspkg.Canvas {
	if !a.cfg.EnableCanvas {
		return nil
	}
	return a.cfg.Canvas
}

// Bootstrap seeds menu entries and loads the default dashboard when canvas support
// is enabled. The canvas reconciler must already be running.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableCanvas {
		return nil
	}
	if a.cfg.MenuBuilder != nil {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem); err != nil {
			return err
		}
	}
	if a.cfg.DefaultDashboardID == "" {
		return nil
	}
	return a.cfg.Canvas.Reconciler.Load(ctx, core.Source{DashboardID: a.cfg.DefaultDashboardID})
}
