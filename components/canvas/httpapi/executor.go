package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/commands"
)

// Executor runs canvas commands on behalf of a transport.
type Executor interface {
	Load(ctx context.Context, input commands.LoadCanvasInput) error
	SetTemplate(ctx context.Context, tpl canvas.DashboardTemplate) error
	Resize(ctx context.Context, input commands.ResizeInput) error
	Click(ctx context.Context, input commands.ClickInput) error
	EditMode(ctx context.Context, input commands.EditModeInput) error
	Fullscreen(ctx context.Context, input commands.FullscreenInput) error
	Preview(ctx context.Context, input commands.PreviewInput) error
	Drop(ctx context.Context, input commands.DropInput) error
	Move(ctx context.Context, input commands.MoveInput) error
}

var errMissingCommander = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command commanders to the Executor interface.
type CommandExecutor struct {
	LoadCommander        gocommand.Commander[commands.LoadCanvasInput]
	SetTemplateCommander gocommand.Commander[canvas.DashboardTemplate]
	ResizeCommander      gocommand.Commander[commands.ResizeInput]
	ClickCommander       gocommand.Commander[commands.ClickInput]
	EditModeCommander    gocommand.Commander[commands.EditModeInput]
	FullscreenCommander  gocommand.Commander[commands.FullscreenInput]
	PreviewCommander     gocommand.Commander[commands.PreviewInput]
	DropCommander        gocommand.Commander[commands.DropInput]
	MoveCommander        gocommand.Commander[commands.MoveInput]
}

// Reconciler is the surface NewCommandExecutor wires commands against. Drop and Move
// drive the live layout engine, so the usual implementation is pkg/canvas.Canvas.
type Reconciler interface {
	Load(ctx context.Context, src canvas.Source) error
	SetTemplate(ctx context.Context, tpl canvas.DashboardTemplate) error
	Resize(ctx context.Context, width int) error
	SetEditMode(ctx context.Context, on bool) error
	SetFullscreen(ctx context.Context, on bool) error
	SetPreviewPreset(ctx context.Context, presetID string) error
	SetPreviewSize(ctx context.Context, size canvas.PreviewSize) error
	Click(ctx context.Context, gridItemID string) error
	Drop(ctx context.Context, widgetType string, x, y, w, h int) error
	Move(ctx context.Context, gridItemID string, x, y, w, h int) error
}

// NewCommandExecutor builds every command against one reconciler.
func NewCommandExecutor(r Reconciler, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		LoadCommander:        commands.NewLoadCanvasCommand(r, telemetry),
		SetTemplateCommander: commands.NewSetTemplateCommand(r, telemetry),
		ResizeCommander:      commands.NewResizeCommand(r, telemetry),
		ClickCommander:       commands.NewClickCommand(r, telemetry),
		EditModeCommander:    commands.NewEditModeCommand(r, telemetry),
		FullscreenCommander:  commands.NewFullscreenCommand(r, telemetry),
		PreviewCommander:     commands.NewPreviewCommand(r, telemetry),
		DropCommander:        commands.NewDropCommand(r, telemetry),
		MoveCommander:        commands.NewMoveCommand(r, telemetry),
	}
}

func (e *CommandExecutor) Load(ctx context.Context, input commands.LoadCanvasInput) error {
	return execute(ctx, e.LoadCommander, input)
}

func (e *CommandExecutor) SetTemplate(ctx context.Context, tpl canvas.DashboardTemplate) error {
	return execute(ctx, e.SetTemplateCommander, tpl)
}

func (e *CommandExecutor) Resize(ctx context.Context, input commands.ResizeInput) error {
	return execute(ctx, e.ResizeCommander, input)
}

func (e *CommandExecutor) Click(ctx context.Context, input commands.ClickInput) error {
	return execute(ctx, e.ClickCommander, input)
}

func (e *CommandExecutor) EditMode(ctx context.Context, input commands.EditModeInput) error {
	return execute(ctx, e.EditModeCommander, input)
}

func (e *CommandExecutor) Fullscreen(ctx context.Context, input commands.FullscreenInput) error {
	return execute(ctx, e.FullscreenCommander, input)
}

func (e *CommandExecutor) Preview(ctx context.Context, input commands.PreviewInput) error {
	return execute(ctx, e.PreviewCommander, input)
}

func (e *CommandExecutor) Drop(ctx context.Context, input commands.DropInput) error {
	return execute(ctx, e.DropCommander, input)
}

func (e *CommandExecutor) Move(ctx context.Context, input commands.MoveInput) error {
	return execute(ctx, e.MoveCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errMissingCommander
	}
	return cmd.Execute(ctx, msg)
}
