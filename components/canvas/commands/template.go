package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

// LoadCanvasInput selects what the canvas mounts with. Template wins over DashboardID.
type LoadCanvasInput struct {
	Template    *canvas.DashboardTemplate `json:"template,omitempty"`
	DashboardID string                    `json:"dashboard_id,omitempty"`
}

type templateService interface {
	Load(ctx context.Context, src canvas.Source) error
	SetTemplate(ctx context.Context, tpl canvas.DashboardTemplate) error
}

// LoadCanvasCommand mounts the canvas from a template or a stored dashboard.
type LoadCanvasCommand struct {
	service   templateService
	telemetry Telemetry
}

// NewLoadCanvasCommand creates the command.
func NewLoadCanvasCommand(service templateService, telemetry Telemetry) *LoadCanvasCommand {
	return &LoadCanvasCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadCanvasInput] = (*LoadCanvasCommand)(nil)

// Execute delegates to the reconciler.
func (c *LoadCanvasCommand) Execute(ctx context.Context, msg LoadCanvasInput) error {
	if c.service == nil {
		return errors.New("load command requires reconciler")
	}
	if err := c.service.Load(ctx, canvas.Source{Template: msg.Template, DashboardID: msg.DashboardID}); err != nil {
		return err
	}
	payload := map[string]any{"dashboard_id": msg.DashboardID}
	if msg.Template != nil {
		payload["dashboard_id"] = msg.Template.ID
	}
	c.telemetry.Record(ctx, "canvas.command.load", payload)
	return nil
}

// SetTemplateCommand replaces the template snapshot.
type SetTemplateCommand struct {
	service   templateService
	telemetry Telemetry
}

// NewSetTemplateCommand creates the command.
func NewSetTemplateCommand(service templateService, telemetry Telemetry) *SetTemplateCommand {
	return &SetTemplateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[canvas.DashboardTemplate] = (*SetTemplateCommand)(nil)

// Execute assigns the snapshot.
func (c *SetTemplateCommand) Execute(ctx context.Context, msg canvas.DashboardTemplate) error {
	if c.service == nil {
		return errors.New("set template command requires reconciler")
	}
	if err := c.service.SetTemplate(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.set_template", map[string]any{
		"template_id": msg.ID,
		"widgets":     len(msg.Widgets),
	})
	return nil
}
