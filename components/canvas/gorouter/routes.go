package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/commands"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/httpapi"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/queries"
)

// Canvas is the read side of the reconciler used by the routes.
type Canvas interface {
	View() canvas.View
	Selected() (canvas.DashboardWidget, bool)
}

// PageRenderer renders the canvas markup for a view.
type PageRenderer interface {
	Page(view canvas.View, selectedGridItemID string, out ...io.Writer) (string, error)
}

// Config wires go-router with the canvas reconciler, APIs, and hooks.
type Config[T any] struct {
	Router    router.Router[T]
	Canvas    Canvas
	Page      PageRenderer
	API       httpapi.Executor
	Styles    *canvas.ColumnStyles
	Broadcast *canvas.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for canvas endpoints.
type RouteConfig struct {
	HTML       string
	View       string
	Template   string
	Load       string
	Resize     string
	Click      string
	EditMode   string
	Fullscreen string
	Preview    string
	Drop       string
	Move       string
	CSS        string
	WebSocket  string
}

// Register mounts canvas routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Canvas == nil {
		return errors.New("gorouter: canvas is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	styles := cfg.Styles
	if styles == nil {
		styles = canvas.NewColumnStyles()
	}
	group := cfg.Router.Group(base)

	if cfg.Page != nil {
		group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
			view := cfg.Canvas.View()
			var buf bytes.Buffer
			if _, err := cfg.Page.Page(view, selectedGridItem(cfg.Canvas), &buf); err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(buf.Bytes())
		}))
	}

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Canvas.View())
	}))

	group.Get(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		preview, err := queries.NewPreviewQuery(cfg.Canvas).Query(ctx.Context(), queries.PreviewInput{
			ContainerWidth: atoi(ctx.Query("container_width")),
		})
		if err != nil {
			return respondError(ctx, http.StatusNotFound, err)
		}
		return ctx.JSON(http.StatusOK, preview)
	}))

	group.Get(routes.CSS, router.WrapHandler(func(ctx router.Context) error {
		css, err := queries.NewColumnCSSQuery(cfg.Canvas, styles).Query(ctx.Context(), queries.ColumnCSSInput{
			Columns: atoi(ctx.Query("columns")),
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/css; charset=utf-8")
		return ctx.Send([]byte(css))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Template, router.WrapHandler(func(ctx router.Context) error {
		var payload canvas.DashboardTemplate
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetTemplate(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "assigned"})
	}))

	r.Post(routes.Load, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.LoadCanvasInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if id := ctx.Param("id"); id != "" && payload.DashboardID == "" {
			payload.DashboardID = id
		}
		if err := api.Load(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "loaded"})
	}))

	r.Post(routes.Resize, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ResizeInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Resize(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "resized"})
	}))

	r.Post(routes.Click, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ClickInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Click(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "clicked"})
	}))

	r.Post(routes.EditMode, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.EditModeInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.EditMode(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]bool{"edit_mode": payload.Enabled})
	}))

	r.Post(routes.Fullscreen, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.FullscreenInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Fullscreen(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]bool{"fullscreen": payload.Enabled})
	}))

	r.Post(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.PreviewInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Preview(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "previewing"})
	}))

	r.Post(routes.Drop, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.DropInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Drop(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusConflict, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "dropped"})
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.MoveInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Move(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusConflict, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "moved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *canvas.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func selectedGridItem(c Canvas) string {
	if widget, ok := c.Selected(); ok {
		return widget.GridItem.ID
	}
	return ""
}

func atoi(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/canvas"
	}
	if routes.View == "" {
		routes.View = "/canvas/_view"
	}
	if routes.Template == "" {
		routes.Template = "/canvas/template"
	}
	if routes.Load == "" {
		routes.Load = "/canvas/load"
	}
	if routes.Resize == "" {
		routes.Resize = "/canvas/resize"
	}
	if routes.Click == "" {
		routes.Click = "/canvas/click"
	}
	if routes.EditMode == "" {
		routes.EditMode = "/canvas/edit-mode"
	}
	if routes.Fullscreen == "" {
		routes.Fullscreen = "/canvas/fullscreen"
	}
	if routes.Preview == "" {
		routes.Preview = "/canvas/preview"
	}
	if routes.Drop == "" {
		routes.Drop = "/canvas/drop"
	}
	if routes.Move == "" {
		routes.Move = "/canvas/move"
	}
	if routes.CSS == "" {
		routes.CSS = "/canvas/columns.css"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/canvas/ws"
	}
	return routes
}
