package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	canvaspkg "github.com/goliatone/go-dashboard-canvas/pkg/canvas"
)

type watchCmd struct {
	Template string        `arg:"" type:"existingfile" help:"Template file (YAML or JSON) to mount and watch."`
	Width    int           `default:"1280" help:"Container width the canvas is resized to."`
	Manifest string        `type:"existingfile" help:"Optional widget catalog manifest."`
	Settle   time.Duration `default:"150ms" help:"Quiet period before a changed file is re-applied."`
}

func (cmd *watchCmd) Run(ctx context.Context, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := newCanvas(cmd.Manifest, nil, logger)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(cmd.Template)
	if err != nil {
		return fmt.Errorf("canvasctl: resolve template path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("canvasctl: create watcher: %w", err)
	}
	defer watcher.Close()
	// Editors replace files on save, so the directory is watched instead of the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("canvasctl: watch %s: %w", filepath.Dir(path), err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Run(gctx) })
	g.Go(func() error {
		if err := c.Reconciler.Resize(gctx, cmd.Width); err != nil {
			return err
		}
		apply(gctx, c, path, logger)
		return watchTemplate(gctx, watcher, path, cmd.Settle, func() { apply(gctx, c, path, logger) }, logger)
	})
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchTemplate calls onChange, debounced, whenever path is written or recreated.
func watchTemplate(ctx context.Context, watcher *fsnotify.Watcher, path string, settle time.Duration, onChange func(), logger *zap.Logger) error {
	debounce := canvas.NewDebouncer(settle)
	defer debounce.Cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce.Trigger(onChange)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("canvasctl: watcher error", zap.Error(err))
		}
	}
}

func apply(ctx context.Context, c *canvaspkg.Canvas, path string, logger *zap.Logger) {
	tpl, err := canvas.ReadTemplateFile(path)
	if err != nil {
		logger.Error("canvasctl: read template", zap.String("path", path), zap.Error(err))
		return
	}
	if err := c.Reconciler.SetTemplate(ctx, *tpl); err != nil {
		logger.Error("canvasctl: apply template", zap.String("template_id", tpl.ID), zap.Error(err))
		return
	}
	view := c.Reconciler.View()
	fields := []zap.Field{
		zap.String("template_id", tpl.ID),
		zap.Int("widgets", len(tpl.Widgets)),
		zap.Int("width", view.Width),
		zap.Bool("static", view.Static),
	}
	if view.Active != nil {
		fields = append(fields, zap.String("active_preset", view.Active.ID))
	}
	logger.Info("canvasctl: template applied", fields...)
}

// newCanvas assembles the canvas builder used by watch and serve.
func newCanvas(manifest string, store canvas.TemplateStore, logger *zap.Logger) (*canvaspkg.Canvas, error) {
	catalog := canvas.NewDefaultCatalog()
	if manifest != "" {
		if _, err := catalog.LoadManifestFile(manifest); err != nil {
			return nil, err
		}
	}
	return canvaspkg.New(canvaspkg.Config{
		Store:     store,
		Catalog:   catalog,
		Toaster:   logToaster{logger: logger},
		Notifier:  logNotifier{logger: logger},
		Telemetry: canvas.LogTelemetry{Logger: logger},
		Logger:    logger,
		EditMode:  true,
	})
}

type logToaster struct {
	logger *zap.Logger
}

func (t logToaster) Toast(_ context.Context, message string) {
	t.logger.Warn("canvasctl: toast", zap.String("message", message))
}

type logNotifier struct {
	logger *zap.Logger
}

func (n logNotifier) Notify(_ context.Context, event canvas.Event) error {
	fields := []zap.Field{zap.String("type", string(event.Type))}
	if event.Widget != nil {
		fields = append(fields, zap.String("widget_id", event.Widget.ID))
	}
	n.logger.Debug("canvasctl: canvas event", fields...)
	return nil
}
