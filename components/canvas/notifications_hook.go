package canvas

import "context"

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishCanvasEvent(ctx context.Context, channel string, event Event) error
}

// NotificationsHook forwards canvas events to an external notifications client.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// Notify publishes events to the configured notifications client.
func (h *NotificationsHook) Notify(ctx context.Context, event Event) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishCanvasEvent(ctx, h.Channel, event)
}

// Notifiers fans an event out to several notifiers, stopping at the first error.
type Notifiers []Notifier

// Notify delivers the event to every notifier in order.
func (n Notifiers) Notify(ctx context.Context, event Event) error {
	for _, notifier := range n {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) error { return nil }

type noopToaster struct{}

func (noopToaster) Toast(context.Context, string) {}
