package main

import (
	"context"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

type cli struct {
	Debug bool `help:"Enable development logging."`

	Resolve resolveCmd `cmd:"" help:"Print the screen preset active at a container width."`
	Preview previewCmd `cmd:"" help:"Print the preview size and fit zoom of a screen preset."`
	CSS     cssCmd     `cmd:"" name:"css" help:"Print the column overflow stylesheet for a column count."`
	Diff    diffCmd    `cmd:"" help:"List the keys and screen presets that differ between two templates."`
	Widget  widgetCmd  `cmd:"" help:"Add a widget type to a catalog manifest."`
	Watch   watchCmd   `cmd:"" help:"Mount a template file and re-apply it on every write."`
	Serve   serveCmd   `cmd:"" help:"Serve the canvas builder over HTTP."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Description("Dashboard canvas utility: inspect templates and run the canvas builder."),
		kong.UsageOnError(),
	)
	logger, err := newLogger(app.Debug)
	ctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	ctx.Bind(logger)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.FatalIfErrorf(ctx.Run())
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
