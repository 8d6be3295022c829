package canvas

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"sync"

	template "github.com/goliatone/go-template"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer contract needed by the HTML surface.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}

// SurfaceOptions configures an HTMLSurface.
type SurfaceOptions struct {
	Renderer Renderer
	Styles   *ColumnStyles
	// NewMount creates the mount point for a render generation.
	NewMount func(generation int) MountPoint
	Logger   *zap.Logger
}

// HTMLSurface renders the canvas as HTML and owns the mount point the layout engine
// attaches to. A rerender swaps the mount point for a fresh one.
type HTMLSurface struct {
	renderer Renderer
	styles   *ColumnStyles
	newMount func(generation int) MountPoint
	log      *zap.Logger

	mu          sync.Mutex
	mount       MountPoint
	generation  int
	pending     bool
	template    *DashboardTemplate
	placeholder string
}

// NewHTMLSurface builds an attached surface.
func NewHTMLSurface(opts SurfaceOptions) (*HTMLSurface, error) {
	if opts.Renderer == nil {
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("canvas: build template renderer: %w", err)
		}
		opts.Renderer = renderer
	}
	if opts.Styles == nil {
		opts.Styles = NewColumnStyles()
	}
	if opts.NewMount == nil {
		opts.NewMount = func(generation int) MountPoint {
			return mountID("canvas-grid-" + strconv.Itoa(generation))
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &HTMLSurface{
		renderer: opts.Renderer,
		styles:   opts.Styles,
		newMount: opts.NewMount,
		log:      opts.Logger,
	}
	s.mount = s.newMount(s.generation)
	return s, nil
}

// Mount returns the current mount point.
func (s *HTMLSurface) Mount() (MountPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mount, s.mount != nil
}

// Render records the snapshot and syncs the rendered widget elements into the mount point.
func (s *HTMLSurface) Render(tpl *DashboardTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = tpl
	s.syncLocked()
}

// RequestRerender renders the rebuilding placeholder, detaches the mount point and
// attaches a fresh one. Server-side rendering is synchronous, so the returned channel
// is already closed.
func (s *HTMLSurface) RequestRerender() <-chan struct{} {
	done := make(chan struct{})
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
	s.mount = nil
	placeholder, err := s.renderer.Render("placeholder.html", map[string]any{"template_id": s.templateID()})
	if err != nil {
		s.log.Warn("canvas: render placeholder", zap.Error(err))
	}
	s.placeholder = placeholder
	s.generation++
	s.mount = s.newMount(s.generation)
	s.syncLocked()
	s.pending = false
	close(done)
	return done
}

// RerenderPending reports whether the placeholder is still shown.
func (s *HTMLSurface) RerenderPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Detach removes the mount point, as when the canvas leaves the page.
func (s *HTMLSurface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mount = nil
}

// Attach creates a fresh mount point after Detach.
func (s *HTMLSurface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mount != nil {
		return
	}
	s.generation++
	s.mount = s.newMount(s.generation)
	s.syncLocked()
}

// Generation counts the mount points created so far.
func (s *HTMLSurface) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Placeholder returns the last rendered rebuilding placeholder.
func (s *HTMLSurface) Placeholder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

// Page renders the canvas markup for a published view.
func (s *HTMLSurface) Page(view View, selectedGridItemID string, out ...io.Writer) (string, error) {
	s.mu.Lock()
	mount := ""
	if s.mount != nil {
		mount = s.mount.ID()
	}
	s.mu.Unlock()
	return s.renderer.Render("canvas.html", s.pageData(view, mount, selectedGridItemID), out...)
}

func (s *HTMLSurface) pageData(view View, mount, selected string) map[string]any {
	data := map[string]any{
		"mount_id":       mount,
		"width":          view.Width,
		"columns":        view.Columns,
		"static":         view.Static,
		"fullscreen":     view.Fullscreen,
		"preview_width":  view.PreviewSize.Width,
		"preview_height": view.PreviewSize.Height,
		"css":            s.styles.For(view.Columns),
		"blocked":        view.Active != nil && view.Active.ScalingPreset == ScalingBlockDevice,
	}
	if view.PreviewPreset != nil {
		data["preview_preset"] = view.PreviewPreset.DisplayName
	}
	widgets := []map[string]any{}
	if tpl := view.Template; tpl != nil {
		data["template_id"] = tpl.ID
		data["display_name"] = tpl.DisplayName
		for _, w := range tpl.Widgets {
			widgets = append(widgets, map[string]any{
				"id":           w.ID,
				"grid_item_id": w.GridItem.ID,
				"name":         w.DisplayName,
				"type":         w.WidgetType,
				"x":            w.GridItem.X,
				"y":            w.GridItem.Y,
				"w":            w.GridItem.W,
				"h":            w.GridItem.H,
				"selected":     selected != "" && w.GridItem.ID == selected,
			})
		}
	}
	data["widgets"] = widgets
	return data
}

func (s *HTMLSurface) syncLocked() {
	if s.template == nil {
		return
	}
	if host, ok := s.mount.(WidgetHost); ok {
		host.SyncWidgets(s.template.Widgets)
	}
}

func (s *HTMLSurface) templateID() string {
	if s.template == nil {
		return ""
	}
	return s.template.ID
}

type mountID string

func (m mountID) ID() string { return string(m) }
