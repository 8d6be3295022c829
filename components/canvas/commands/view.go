package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

// ResizeInput reports a measured canvas width.
type ResizeInput struct {
	Width int `json:"width"`
}

// EditModeInput toggles edit mode.
type EditModeInput struct {
	Enabled bool `json:"enabled"`
}

// FullscreenInput toggles fullscreen.
type FullscreenInput struct {
	Enabled bool `json:"enabled"`
}

// PreviewInput selects a preview by preset id or by a custom size. PresetID wins.
type PreviewInput struct {
	PresetID string `json:"preset_id,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

type viewService interface {
	Resize(ctx context.Context, width int) error
	SetEditMode(ctx context.Context, on bool) error
	SetFullscreen(ctx context.Context, on bool) error
	SetPreviewPreset(ctx context.Context, presetID string) error
	SetPreviewSize(ctx context.Context, size canvas.PreviewSize) error
}

// ResizeCommand forwards container resizes.
type ResizeCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewResizeCommand creates the command.
func NewResizeCommand(service viewService, telemetry Telemetry) *ResizeCommand {
	return &ResizeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResizeInput] = (*ResizeCommand)(nil)

// Execute resizes the canvas.
func (c *ResizeCommand) Execute(ctx context.Context, msg ResizeInput) error {
	if c.service == nil {
		return errors.New("resize command requires reconciler")
	}
	if msg.Width <= 0 {
		return errors.New("resize command requires a positive width")
	}
	if err := c.service.Resize(ctx, msg.Width); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.resize", map[string]any{"width": msg.Width})
	return nil
}

// EditModeCommand toggles edit mode.
type EditModeCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewEditModeCommand creates the command.
func NewEditModeCommand(service viewService, telemetry Telemetry) *EditModeCommand {
	return &EditModeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EditModeInput] = (*EditModeCommand)(nil)

// Execute toggles edit mode.
func (c *EditModeCommand) Execute(ctx context.Context, msg EditModeInput) error {
	if c.service == nil {
		return errors.New("edit mode command requires reconciler")
	}
	if err := c.service.SetEditMode(ctx, msg.Enabled); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.edit_mode", map[string]any{"enabled": msg.Enabled})
	return nil
}

// FullscreenCommand toggles fullscreen.
type FullscreenCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewFullscreenCommand creates the command.
func NewFullscreenCommand(service viewService, telemetry Telemetry) *FullscreenCommand {
	return &FullscreenCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FullscreenInput] = (*FullscreenCommand)(nil)

// Execute toggles fullscreen.
func (c *FullscreenCommand) Execute(ctx context.Context, msg FullscreenInput) error {
	if c.service == nil {
		return errors.New("fullscreen command requires reconciler")
	}
	if err := c.service.SetFullscreen(ctx, msg.Enabled); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.fullscreen", map[string]any{"enabled": msg.Enabled})
	return nil
}

// PreviewCommand switches the preview preset or size.
type PreviewCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewPreviewCommand creates the command.
func NewPreviewCommand(service viewService, telemetry Telemetry) *PreviewCommand {
	return &PreviewCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PreviewInput] = (*PreviewCommand)(nil)

// Execute applies the preview.
func (c *PreviewCommand) Execute(ctx context.Context, msg PreviewInput) error {
	if c.service == nil {
		return errors.New("preview command requires reconciler")
	}
	if msg.PresetID != "" {
		if err := c.service.SetPreviewPreset(ctx, msg.PresetID); err != nil {
			return err
		}
		c.telemetry.Record(ctx, "canvas.command.preview", map[string]any{"preset_id": msg.PresetID})
		return nil
	}
	if msg.Width <= 0 || msg.Height <= 0 {
		return errors.New("preview command requires a preset id or a positive size")
	}
	if err := c.service.SetPreviewSize(ctx, canvas.PreviewSize{Width: msg.Width, Height: msg.Height}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.preview", map[string]any{"width": msg.Width, "height": msg.Height})
	return nil
}
