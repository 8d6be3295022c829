package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

// ColumnCSSInput selects the column count; zero uses the canvas' current count.
type ColumnCSSInput struct {
	Columns int `json:"columns"`
}

// ColumnCSSQuery returns the column-overflow stylesheet.
type ColumnCSSQuery struct {
	service viewService
	styles  *canvas.ColumnStyles
}

// NewColumnCSSQuery builds the query. A nil styles cache gets a fresh one.
func NewColumnCSSQuery(service viewService, styles *canvas.ColumnStyles) *ColumnCSSQuery {
	if styles == nil {
		styles = canvas.NewColumnStyles()
	}
	return &ColumnCSSQuery{service: service, styles: styles}
}

var _ gocommand.Querier[ColumnCSSInput, string] = (*ColumnCSSQuery)(nil)

// Query builds or fetches the stylesheet.
func (q *ColumnCSSQuery) Query(_ context.Context, input ColumnCSSInput) (string, error) {
	columns := input.Columns
	if columns <= 0 && q.service != nil {
		columns = q.service.View().Columns
	}
	return q.styles.For(columns), nil
}
