package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

var errNoTemplate = errors.New("queries: canvas has no template")

// ViewInput is the (empty) input of view queries.
type ViewInput struct{}

type viewService interface {
	View() canvas.View
}

// SnapshotQuery returns the published canvas view.
type SnapshotQuery struct {
	service viewService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service viewService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[ViewInput, canvas.View] = (*SnapshotQuery)(nil)

// Query returns a copy of the current view.
func (q *SnapshotQuery) Query(context.Context, ViewInput) (canvas.View, error) {
	return q.service.View(), nil
}

// ActivePresetQuery returns the screen preset applied at the current width.
type ActivePresetQuery struct {
	service viewService
}

// NewActivePresetQuery builds the query.
func NewActivePresetQuery(service viewService) *ActivePresetQuery {
	return &ActivePresetQuery{service: service}
}

var _ gocommand.Querier[ViewInput, canvas.ScreenPreset] = (*ActivePresetQuery)(nil)

// Query resolves the active preset.
func (q *ActivePresetQuery) Query(context.Context, ViewInput) (canvas.ScreenPreset, error) {
	view := q.service.View()
	if view.Active == nil {
		return canvas.ScreenPreset{}, errNoTemplate
	}
	return *view.Active, nil
}

// Preview describes the previewed tier and its pixel size. PresetID is empty for a
// custom size.
type Preview struct {
	PresetID string             `json:"preset_id,omitempty"`
	Size     canvas.PreviewSize `json:"size"`
	Zoom     float64            `json:"zoom"`
}

// PreviewInput carries the width of the container hosting the preview.
type PreviewInput struct {
	ContainerWidth int `json:"container_width"`
}

// PreviewQuery returns the preview preset, size and fit-to-container zoom.
type PreviewQuery struct {
	service viewService
}

// NewPreviewQuery builds the query.
func NewPreviewQuery(service viewService) *PreviewQuery {
	return &PreviewQuery{service: service}
}

var _ gocommand.Querier[PreviewInput, Preview] = (*PreviewQuery)(nil)

// Query describes the preview.
func (q *PreviewQuery) Query(_ context.Context, input PreviewInput) (Preview, error) {
	view := q.service.View()
	if view.Template == nil {
		return Preview{}, errNoTemplate
	}
	out := Preview{
		Size: view.PreviewSize,
		Zoom: canvas.FitZoom(input.ContainerWidth, view.PreviewSize.Width),
	}
	if view.PreviewPreset != nil {
		out.PresetID = view.PreviewPreset.ID
	}
	return out, nil
}
