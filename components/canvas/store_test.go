package canvas

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateYAML = `
id: plant-floor
displayName: Plant floor
columns: 16
screenPresets:
  - id: mobile
    displayName: Mobile
    breakpoint: 640
    scalingPreset: WRAP_TO_SINGLE_COLUMN
  - id: large
    displayName: Large
    breakpoint: 1000000
    scalingPreset: KEEP_LAYOUT
widgets:
  - id: w-temp
    displayName: Temperature
    widgetTypeId: linechart
    widgetConfig:
      period: hour
    gridItem: {id: g-temp, x: 0, y: 0, w: 4, h: 2}
`

func TestDecodeTemplate(t *testing.T) {
	tpl, err := DecodeTemplate(strings.NewReader(templateYAML))
	require.NoError(t, err)
	assert.Equal(t, "plant-floor", tpl.ID)
	assert.Equal(t, 16, tpl.Columns)
	require.Len(t, tpl.ScreenPresets, 2)
	assert.Equal(t, ScalingWrapToSingleColumn, tpl.ScreenPresets[0].ScalingPreset)
	require.Len(t, tpl.Widgets, 1)
	assert.Equal(t, GridItem{ID: "g-temp", W: 4, H: 2}, tpl.Widgets[0].GridItem)
	assert.Equal(t, "hour", tpl.Widgets[0].WidgetConfig["period"])
}

func TestDecodeTemplateRejectsInvalidDocuments(t *testing.T) {
	_, err := DecodeTemplate(strings.NewReader(""))
	assert.Error(t, err)

	_, err = DecodeTemplate(strings.NewReader("id: x\ncolumns: 0\nscreenPresets: []\n"))
	assert.Error(t, err)

	_, err = DecodeTemplate(strings.NewReader("id: x\ncolumnz: 4\n"))
	assert.Error(t, err)
}

func TestFileTemplateStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plant-floor.yaml"), []byte(templateYAML), 0o600))
	jsonDoc := `{"id":"lobby","columns":12,"screenPresets":[{"id":"all","displayName":"All","breakpoint":1000000,"scalingPreset":"KEEP_LAYOUT"}],"widgets":[]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lobby.json"), []byte(jsonDoc), 0o600))

	store := FileTemplateStore{Dir: dir}
	ctx := context.Background()

	tpl, err := store.Get(ctx, "plant-floor")
	require.NoError(t, err)
	assert.Equal(t, "Plant floor", tpl.DisplayName)

	tpl, err = store.Get(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, 12, tpl.Columns)

	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	_, err = store.Get(ctx, "../plant-floor")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTemplateNotFound))
}

func TestInMemoryTemplateStoreCopies(t *testing.T) {
	tpl := singlePresetTemplate()
	store := NewInMemoryTemplateStore(tpl)
	ctx := context.Background()

	got, err := store.Get(ctx, "dash-1")
	require.NoError(t, err)
	got.Widgets[0].DisplayName = "mutated"

	again, err := store.Get(ctx, "dash-1")
	require.NoError(t, err)
	assert.Equal(t, "KPI 1", again.Widgets[0].DisplayName)

	require.Error(t, store.Save(ctx, DashboardTemplate{}))
	other := responsiveTemplate()
	other.ID = "dash-0"
	require.NoError(t, store.Save(ctx, other))
	assert.Equal(t, []string{"dash-0", "dash-1"}, store.IDs())

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
