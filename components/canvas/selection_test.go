package canvas

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectionFixture() (*DashboardTemplate, []MountedItem, map[string]*fakeNode) {
	tpl := singlePresetTemplate()
	tpl.Widgets = append(tpl.Widgets, DashboardWidget{
		ID: "w2", DisplayName: "Map 1", WidgetType: "map", GridItem: GridItem{ID: "g2", X: 2, W: 2, H: 2},
	})
	nodes := map[string]*fakeNode{
		"g1": newFakeNode("g1", "w1"),
		"g2": newFakeNode("g2", "w2"),
	}
	items := []MountedItem{
		{GridItemID: "g1", WidgetID: "w1", Managed: true, Node: nodes["g1"]},
		{GridItemID: "g2", WidgetID: "w2", Managed: true, Node: nodes["g2"]},
	}
	return &tpl, items, nodes
}

func TestSelectionClickTogglesSelection(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSelection(SelectionOptions{Notifier: notifier, Guard: testTiming.DragClickGuard})
	defer s.Close()
	tpl, items, nodes := selectionFixture()
	ctx := context.Background()

	s.Click(ctx, tpl, items, "g1", false)
	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "w1", selected.ID)
	assert.True(t, nodes["g1"].active())
	assert.False(t, nodes["g2"].active())
	assert.Equal(t, []EventType{EventSelected}, notifier.types())

	notifier.reset()
	s.Click(ctx, tpl, items, "g2", false)
	events := notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventDeselected, events[0].Type)
	assert.Equal(t, "w1", events[0].Widget.ID)
	assert.Equal(t, EventSelected, events[1].Type)
	assert.Equal(t, "w2", events[1].Widget.ID)
	assert.False(t, nodes["g1"].active())
	assert.True(t, nodes["g2"].active())

	notifier.reset()
	s.Click(ctx, tpl, items, "g2", false)
	assert.Empty(t, notifier.types(), "clicking the selected item is a no-op")

	s.Click(ctx, tpl, items, "", false)
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventDeselected}, notifier.types())
	assert.False(t, nodes["g2"].active())
}

func TestSelectionIgnoresClicksOnStaticGrid(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSelection(SelectionOptions{Notifier: notifier})
	defer s.Close()
	tpl, items, _ := selectionFixture()

	s.Click(context.Background(), tpl, items, "g1", true)
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, notifier.types())
}

func TestSelectionIgnoresClicksTrailingADrag(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSelection(SelectionOptions{Notifier: notifier, Guard: testTiming.DragClickGuard})
	defer s.Close()
	tpl, items, _ := selectionFixture()
	ctx := context.Background()

	s.DragStart()
	s.Click(ctx, tpl, items, "g1", false)
	_, ok := s.Selected()
	assert.False(t, ok)

	s.DragStop()
	s.Click(ctx, tpl, items, "g1", false)
	_, ok = s.Selected()
	assert.False(t, ok, "click right after the drag stopped is drag noise")

	require.Eventually(t, func() bool { return !s.Dragging() }, time.Second, time.Millisecond)
	s.Click(ctx, tpl, items, "g1", false)
	_, ok = s.Selected()
	assert.True(t, ok)
}

func TestSelectionDragStartCancelsPendingClear(t *testing.T) {
	s := NewSelection(SelectionOptions{Guard: testTiming.DragClickGuard})
	defer s.Close()

	s.DragStart()
	s.DragStop()
	s.DragStart()
	time.Sleep(3 * testTiming.DragClickGuard)
	assert.True(t, s.Dragging())
}

func TestSelectionIgnoresUnknownGridItem(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSelection(SelectionOptions{Notifier: notifier})
	defer s.Close()
	tpl, items, _ := selectionFixture()

	s.Click(context.Background(), tpl, items, "missing", false)
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, notifier.types())
}

func TestSelectionRefreshDropsRemovedWidget(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSelection(SelectionOptions{Notifier: notifier})
	defer s.Close()
	tpl, items, _ := selectionFixture()
	ctx := context.Background()
	s.Click(ctx, tpl, items, "g2", false)

	renamed := tpl.Clone()
	renamed.Widgets[1].DisplayName = "Map renamed"
	s.Refresh(ctx, renamed, items)
	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "Map renamed", selected.DisplayName)

	notifier.reset()
	trimmed := tpl.Clone()
	trimmed.Widgets = trimmed.Widgets[:1]
	s.Refresh(ctx, trimmed, items)
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventDeselected}, notifier.types())
}

func TestSelectionHighlightReappliesClass(t *testing.T) {
	s := NewSelection(SelectionOptions{})
	defer s.Close()
	tpl, items, _ := selectionFixture()
	s.Click(context.Background(), tpl, items, "g1", false)

	fresh := newFakeNode("g1", "w1")
	s.Highlight([]MountedItem{{GridItemID: "g1", WidgetID: "w1", Node: fresh}})
	assert.True(t, fresh.active())
}
