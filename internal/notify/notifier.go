// Package notify delivers scan summaries to chat channels. A summary is
// dispatched to every registered sender (Telegram, Discord).
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sender is one chat channel.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	Name() string
}

// Notifier dispatches scan summaries to one or more Senders.
type Notifier struct {
	senders []Sender
	maxRows int
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders. At
// most maxRows report rows are listed in each message.
func NewNotifier(senders []Sender, maxRows int, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		maxRows: maxRows,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// NotifyScan formats s and sends it to every sender.
func (n *Notifier) NotifyScan(ctx context.Context, s Summary) error {
	return n.dispatch(ctx, s.Title(), s.Body(n.maxRows))
}

// dispatch sends to every sender in turn. One failing sender does not stop
// the others; all failures are joined into the returned error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.WarnContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent", slog.String("sender", s.Name()))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
