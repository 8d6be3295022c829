package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/gorouter"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/httpapi"
)

type serveCmd struct {
	Addr      string `default:":9876" help:"Listen address."`
	Templates string `type:"existingdir" help:"Directory of <id>.yaml/.json templates served by the load endpoint."`
	Dashboard string `help:"Dashboard id loaded at startup (requires --templates)."`
	Manifest  string `type:"existingfile" help:"Optional widget catalog manifest."`
	BasePath  string `name:"base-path" default:"/admin" help:"Route prefix."`
}

func (cmd *serveCmd) Run(ctx context.Context, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store canvas.TemplateStore
	if cmd.Templates != "" {
		store = canvas.FileTemplateStore{Dir: cmd.Templates}
	}
	c, err := newCanvas(cmd.Manifest, store, logger)
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Canvas:    c.Reconciler,
		Page:      c.Surface,
		API:       httpapi.NewCommandExecutor(c, canvas.LogTelemetry{Logger: logger}),
		Styles:    c.Styles,
		Broadcast: c.Broadcast,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Run(gctx) })
	g.Go(func() error {
		loadInitial(gctx, c, cmd.Dashboard, logger)
		return nil
	})
	g.Go(func() error {
		logger.Info("canvasctl: serving canvas",
			zap.String("addr", cmd.Addr),
			zap.String("page", cmd.BasePath+"/canvas"),
		)
		return server.Serve(cmd.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

type dashboardLoader interface {
	Load(ctx context.Context, src canvas.Source) error
}

// loadInitial loads the startup dashboard. A failed load leaves the server up with an
// empty canvas; the reconciler has already toasted the failure.
func loadInitial(ctx context.Context, loader dashboardLoader, dashboardID string, logger *zap.Logger) {
	if dashboardID == "" {
		return
	}
	if err := loader.Load(ctx, canvas.Source{DashboardID: dashboardID}); err != nil {
		logger.Warn("canvasctl: initial dashboard load failed",
			zap.String("dashboard_id", dashboardID),
			zap.Error(err),
		)
	}
}
