package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/logger"
)

type LostAlertRepository interface {
	GetUnnotified(ctx context.Context) ([]domain.LostAlert, error)
	MarkNotified(ctx context.Context, alertID string) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// lostAlertNotifier broadcasts new lost-dog alerts to the community
// Telegram channel. An alert is marked notified only after a successful
// send, so a failed poll retries it on the next tick.
type lostAlertNotifier struct {
	alerts       LostAlertRepository
	sender       TelegramSender
	channelID    int64
	shareBaseURL string
	pollInterval time.Duration
}

func NewLostAlertNotifier(
	alerts LostAlertRepository,
	sender TelegramSender,
	channelID int64,
	shareBaseURL string,
	pollInterval time.Duration,
) *lostAlertNotifier {
	return &lostAlertNotifier{
		alerts:       alerts,
		sender:       sender,
		channelID:    channelID,
		shareBaseURL: shareBaseURL,
		pollInterval: pollInterval,
	}
}

func (l *lostAlertNotifier) Name() string { return "lost_alert_notifier" }

func (l *lostAlertNotifier) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", l.Name(), "interval", l.pollInterval)
	defer slog.Info("Worker stopped", "name", l.Name())

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.notifyPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Notifying lost alerts", logger.Err(err))
			}
		}
	}
}

func (l *lostAlertNotifier) notifyPending(ctx context.Context) error {
	alerts, err := l.alerts.GetUnnotified(ctx)
	if err != nil {
		return fmt.Errorf("fetching unnotified alerts: %w", err)
	}

	for _, alert := range alerts {
		msg := tgbotapi.NewMessage(l.channelID, l.formatAlert(alert))
		msg.DisableWebPagePreview = false

		if _, err := l.sender.Send(msg); err != nil {
			return fmt.Errorf("sending alert %s: %w", alert.ID, err)
		}

		if err := l.alerts.MarkNotified(ctx, alert.ID); err != nil {
			return fmt.Errorf("marking alert %s notified: %w", alert.ID, err)
		}

		slog.InfoContext(ctx, "Lost alert broadcast", "alert_id", alert.ID, "dog", alert.DogName)
	}

	return nil
}

func (l *lostAlertNotifier) formatAlert(alert domain.LostAlert) string {
	return fmt.Sprintf(
		"🚨 Lost dog: %s\nLast seen: %s\nDetails and sighting reports: %s/share/lost/%s",
		alert.DogName,
		alert.LastSeenAt.Format("Jan 2, 15:04"),
		l.shareBaseURL,
		alert.ID,
	)
}
