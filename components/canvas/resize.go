package canvas

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resizer receives measured container widths.
type Resizer interface {
	Resize(ctx context.Context, width int) error
}

// ResizeWatcher forwards container resizes to a Resizer. In fullscreen, resizes are
// continuous and get debounced; otherwise they come from the preset picker and pass
// straight through.
type ResizeWatcher struct {
	target   Resizer
	debounce *Debouncer
	log      *zap.Logger

	mu         sync.Mutex
	fullscreen bool
}

// NewResizeWatcher builds a watcher. A zero debounce uses the default fullscreen debounce.
func NewResizeWatcher(target Resizer, debounce time.Duration, logger *zap.Logger) *ResizeWatcher {
	if debounce <= 0 {
		debounce = DefaultTiming().FullscreenDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResizeWatcher{
		target:   target,
		debounce: NewDebouncer(debounce),
		log:      logger,
	}
}

// SetFullscreen switches between debounced and direct forwarding.
func (w *ResizeWatcher) SetFullscreen(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fullscreen && !on {
		w.debounce.Cancel()
	}
	w.fullscreen = on
}

// Observe reports a measured width.
func (w *ResizeWatcher) Observe(ctx context.Context, width int) error {
	w.mu.Lock()
	fullscreen := w.fullscreen
	w.mu.Unlock()
	if !fullscreen {
		return w.target.Resize(ctx, width)
	}
	// The debounced call outlives the request that reported the width.
	detached := context.WithoutCancel(ctx)
	w.debounce.Trigger(func() {
		if err := w.target.Resize(detached, width); err != nil {
			w.log.Debug("canvas: debounced resize dropped", zap.Int("width", width), zap.Error(err))
		}
	})
	return nil
}

// Close cancels a pending debounced resize.
func (w *ResizeWatcher) Close() {
	w.debounce.Cancel()
}
