package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap/zapcore"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
)

const (
	// actionSnooze prefixes the callback data of the Snooze button.
	actionSnooze = "snooze"
	// actionStop prefixes the callback data of the Stop button.
	actionStop = "stop"
	// updatesTimeout is the long-polling timeout in seconds.
	updatesTimeout = 30
)

// errUnknownAction is returned for callback data that is not ours.
var errUnknownAction = errors.New("unknown callback action")

// botAPI is the subset of the Telegram bot client the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramNotifier sends alerts to a Telegram chat.
type TelegramNotifier struct {
	// bot is the Telegram client.
	bot botAPI
	// chatID is the chat receiving alerts.
	chatID int64
}

// NewTelegramNotifier connects to Telegram with the bot token.
// The client library logs through the application logger at warning level and above.
func NewTelegramNotifier(ctx context.Context, token string, chatID int64) (*TelegramNotifier, error) {
	stdLogger, err := logger.StdLogAt(logger.WithName(ctx, "telegram"), zapcore.DebugLevel, zapcore.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("create telegram logger: %w", err)
	}

	if err = tgbotapi.SetLogger(stdLogger); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	logger.InfoKV(ctx, "Telegram bot authorized", "username", bot.Self.UserName)

	return newTelegramNotifier(bot, chatID), nil
}

// newTelegramNotifier wraps an existing client.
func newTelegramNotifier(bot botAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

// Notify sends the alert text with Snooze and Stop buttons.
func (n *TelegramNotifier) Notify(_ context.Context, alert domain.Alert, leadMinutes int) error {
	msg := tgbotapi.NewMessage(n.chatID, alert.Message(leadMinutes))
	msg.ReplyMarkup = alertKeyboard(alert.ID)

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}

	return nil
}

// Run consumes button presses until ctx is done and resolves the matching
// alert sessions through resolver.
func (n *TelegramNotifier) Run(ctx context.Context, resolver Resolver) error {
	ctx = logger.WithName(ctx, "telegram")

	config := tgbotapi.NewUpdate(0)
	config.Timeout = updatesTimeout

	updates := n.bot.GetUpdatesChan(config)
	defer n.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			if update.CallbackQuery == nil {
				continue
			}

			n.handleCallback(ctx, resolver, update.CallbackQuery)
		}
	}
}

// handleCallback resolves one button press, answers it and updates the message.
func (n *TelegramNotifier) handleCallback(ctx context.Context, resolver Resolver, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil || query.Message.Chat.ID != n.chatID {
		logger.WarnKV(ctx, "Ignoring callback from a foreign chat", "callback_id", query.ID)

		return
	}

	outcome, err := resolve(ctx, resolver, query.Data)
	if err != nil {
		logger.WarnKV(ctx, "Failed to resolve alert", "data", query.Data, "error", err)

		outcome = "Failed: " + err.Error()
	}

	if _, err = n.bot.Request(tgbotapi.NewCallback(query.ID, outcome)); err != nil {
		logger.WarnKV(ctx, "Failed to answer callback", "error", err)
	}

	text := query.Message.Text + "\n" + outcome

	if _, err = n.bot.Send(tgbotapi.NewEditMessageText(n.chatID, query.Message.MessageID, text)); err != nil {
		logger.WarnKV(ctx, "Failed to update alert message", "error", err)
	}
}

// resolve dispatches "action:id" callback data to resolver.
func resolve(ctx context.Context, resolver Resolver, data string) (string, error) {
	action, alertID, found := strings.Cut(data, ":")
	if !found || alertID == "" {
		return "", fmt.Errorf("%q: %w", data, errUnknownAction)
	}

	switch action {
	case actionSnooze:
		if err := resolver.Snooze(ctx, alertID); err != nil {
			return "", err
		}

		return "Snoozed", nil
	case actionStop:
		if err := resolver.Stop(ctx, alertID); err != nil {
			return "", err
		}

		return "Stopped", nil
	default:
		return "", fmt.Errorf("%q: %w", data, errUnknownAction)
	}
}

// alertKeyboard builds the inline buttons of an alert message.
func alertKeyboard(alertID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Snooze", actionSnooze+":"+alertID),
			tgbotapi.NewInlineKeyboardButtonData("Stop", actionStop+":"+alertID),
		),
	)
}
