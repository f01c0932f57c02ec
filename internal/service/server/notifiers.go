package server

import (
	"context"

	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/notify"
)

// buildNotifiers returns the notifier chain and, when enabled, the Telegram
// notifier whose callback loop must be started by the caller.
func buildNotifiers(ctx context.Context, settings *config.Config) (notify.Notifier, *notify.TelegramNotifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier()}

	if !settings.Telegram.Enabled {
		return notifiers, nil, nil
	}

	token, err := settings.TelegramToken()
	if err != nil {
		return nil, nil, err
	}

	telegram, err := notify.NewTelegramNotifier(ctx, token, settings.Telegram.ChatID)
	if err != nil {
		return nil, nil, err
	}

	return append(notifiers, telegram), telegram, nil
}
