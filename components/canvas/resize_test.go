package canvas

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingResizer struct {
	mu     sync.Mutex
	widths []int
}

func (r *recordingResizer) Resize(_ context.Context, width int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widths = append(r.widths, width)
	return nil
}

func (r *recordingResizer) all() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.widths...)
}

func TestResizeWatcherForwardsDirectlyOutsideFullscreen(t *testing.T) {
	target := &recordingResizer{}
	w := NewResizeWatcher(target, testTiming.FullscreenDebounce, nil)
	defer w.Close()

	ctx := context.Background()
	require.NoError(t, w.Observe(ctx, 600))
	require.NoError(t, w.Observe(ctx, 900))
	assert.Equal(t, []int{600, 900}, target.all())
}

func TestResizeWatcherDebouncesInFullscreen(t *testing.T) {
	target := &recordingResizer{}
	w := NewResizeWatcher(target, testTiming.FullscreenDebounce, nil)
	defer w.Close()
	w.SetFullscreen(true)

	ctx := context.Background()
	for _, width := range []int{500, 520, 540, 560} {
		require.NoError(t, w.Observe(ctx, width))
	}
	assert.Empty(t, target.all())

	require.Eventually(t, func() bool { return len(target.all()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{560}, target.all())
}

func TestResizeWatcherLeavingFullscreenDropsPendingResize(t *testing.T) {
	target := &recordingResizer{}
	w := NewResizeWatcher(target, testTiming.FullscreenDebounce, nil)
	defer w.Close()
	w.SetFullscreen(true)

	require.NoError(t, w.Observe(context.Background(), 700))
	w.SetFullscreen(false)
	time.Sleep(3 * testTiming.FullscreenDebounce)
	assert.Empty(t, target.all())
}
