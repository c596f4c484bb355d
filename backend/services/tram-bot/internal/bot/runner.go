package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UpdateSource is the long-polling side of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Runner polls Telegram and feeds updates to a Handler one at a time.
type Runner struct {
	source      UpdateSource
	handler     *Handler
	pollTimeout int
	logger      *zap.Logger
}

// NewRunner builds runner. pollTimeout is the getUpdates long-poll timeout in seconds.
func NewRunner(source UpdateSource, handler *Handler, pollTimeout int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{source: source, handler: handler, pollTimeout: pollTimeout, logger: logger}
}

// Run blocks until ctx is cancelled or the update channel closes.
func (r *Runner) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = r.pollTimeout
	updates := r.source.GetUpdatesChan(u)

	r.logger.Info("telegram polling started", zap.Int("timeout_seconds", r.pollTimeout))
	defer r.logger.Info("telegram polling stopped")

	for {
		select {
		case <-ctx.Done():
			r.source.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			r.handler.Handle(ctx, update)
		}
	}
}
