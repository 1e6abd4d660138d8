package bot

import (
	"context"
	"time"

	"gastos/internal/log"
	"gastos/internal/telegram"
)

// UpdatesSource is the inbound side of the Telegram client.
type UpdatesSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// Poller long-polls Telegram and feeds updates to the handler one at a
// time, in order.
type Poller struct {
	source  UpdatesSource
	handler *Handler
	logger  *log.Logger
	timeout time.Duration

	// pause between polls after an API error
	retryDelay time.Duration
}

func NewPoller(source UpdatesSource, handler *Handler, logger *log.Logger, timeout time.Duration) *Poller {
	return &Poller{
		source:     source,
		handler:    handler,
		logger:     logger.WithComponent(log.ComponentTelegram),
		timeout:    timeout,
		retryDelay: 3 * time.Second,
	}
}

// Run polls until the context is canceled. It only returns the
// context's error; transient API failures are logged and retried.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "Starting update poller", log.FieldOperation, log.OpStartup)

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			p.logger.InfoContext(ctx, "Stopping update poller", log.FieldOperation, log.OpShutdown)
			return err
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.ErrorContext(ctx, "Failed to fetch updates", log.FieldError, err)
			select {
			case <-ctx.Done():
			case <-time.After(p.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			p.handler.HandleUpdate(ctx, u)
		}
	}
}
