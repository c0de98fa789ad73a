package cart

import (
	"context"

	"github.com/lumenmarket/storefront-backend/pkg/logger"
)

// LogNotifier records shopper-facing notices on the structured log. The
// storefront front end surfaces them as transient toasts via its own channel;
// the backend only needs the trail.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

// Notify emits the notice as a warning entry.
func (n *LogNotifier) Notify(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	n.logg.Warn(n.logg.WithField(ctx, "notice", message), "cart.notice")
}
