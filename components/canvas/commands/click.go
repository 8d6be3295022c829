package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ClickInput reports a click on a grid item. An empty GridItemID is a click on the
// empty canvas.
type ClickInput struct {
	GridItemID string `json:"grid_item_id"`
}

type clickService interface {
	Click(ctx context.Context, gridItemID string) error
}

// ClickCommand forwards clicks to the selection coordinator.
type ClickCommand struct {
	service   clickService
	telemetry Telemetry
}

// NewClickCommand creates the command.
func NewClickCommand(service clickService, telemetry Telemetry) *ClickCommand {
	return &ClickCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClickInput] = (*ClickCommand)(nil)

// Execute handles the click.
func (c *ClickCommand) Execute(ctx context.Context, msg ClickInput) error {
	if c.service == nil {
		return errors.New("click command requires reconciler")
	}
	if err := c.service.Click(ctx, msg.GridItemID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.click", map[string]any{"grid_item_id": msg.GridItemID})
	return nil
}
