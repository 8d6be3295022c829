package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// DropInput drops a widget type from the palette onto the grid at a cell position.
// A zero W or H lets the catalog minimum decide the size.
type DropInput struct {
	WidgetType string `json:"widget_type"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	W          int    `json:"w,omitempty"`
	H          int    `json:"h,omitempty"`
}

// MoveInput drags or resizes a mounted grid item.
type MoveInput struct {
	GridItemID string `json:"grid_item_id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	W          int    `json:"w"`
	H          int    `json:"h"`
}

type gridService interface {
	Drop(ctx context.Context, widgetType string, x, y, w, h int) error
	Move(ctx context.Context, gridItemID string, x, y, w, h int) error
}

// DropCommand feeds palette drops into the live layout engine.
type DropCommand struct {
	service   gridService
	telemetry Telemetry
}

// NewDropCommand creates the command.
func NewDropCommand(service gridService, telemetry Telemetry) *DropCommand {
	return &DropCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DropInput] = (*DropCommand)(nil)

// Execute drops the widget.
func (c *DropCommand) Execute(ctx context.Context, msg DropInput) error {
	if c.service == nil {
		return errors.New("drop command requires canvas")
	}
	if msg.WidgetType == "" {
		return errors.New("drop command requires widget_type")
	}
	if msg.X < 0 || msg.Y < 0 || msg.W < 0 || msg.H < 0 {
		return errors.New("drop command requires non-negative coordinates")
	}
	if err := c.service.Drop(ctx, msg.WidgetType, msg.X, msg.Y, msg.W, msg.H); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.drop", map[string]any{
		"widget_type": msg.WidgetType,
		"x":           msg.X,
		"y":           msg.Y,
	})
	return nil
}

// MoveCommand feeds drags and resizes of mounted items into the live layout engine.
type MoveCommand struct {
	service   gridService
	telemetry Telemetry
}

// NewMoveCommand creates the command.
func NewMoveCommand(service gridService, telemetry Telemetry) *MoveCommand {
	return &MoveCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveInput] = (*MoveCommand)(nil)

// Execute moves the item.
func (c *MoveCommand) Execute(ctx context.Context, msg MoveInput) error {
	if c.service == nil {
		return errors.New("move command requires canvas")
	}
	if msg.GridItemID == "" {
		return errors.New("move command requires grid_item_id")
	}
	if msg.X < 0 || msg.Y < 0 || msg.W < 1 || msg.H < 1 {
		return errors.New("move command requires a position and a positive size")
	}
	if err := c.service.Move(ctx, msg.GridItemID, msg.X, msg.Y, msg.W, msg.H); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.move", map[string]any{"grid_item_id": msg.GridItemID})
	return nil
}
