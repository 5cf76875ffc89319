package bot

import (
	"context"
	"fmt"
	"time"

	"courses-bot/internal/metrics"
	"courses-bot/internal/store"
	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Broadcaster рассылает сообщение всем известным пользователям с паузой
// между отправками, чтобы не упереться в лимиты Telegram
type Broadcaster struct {
	bot      *tgbotapi.BotAPI
	users    store.UserRepository
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewBroadcaster создает новый рассыльщик
func NewBroadcaster(bot *tgbotapi.BotAPI, users store.UserRepository, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		bot:      bot,
		users:    users,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// SendToAll отправляет текст всем пользователям. Отказ одного получателя
// (заблокировал бота, удалил аккаунт) не прерывает рассылку.
func (b *Broadcaster) SendToAll(ctx context.Context, text string) (*models.BroadcastResult, error) {
	ids, err := b.users.GetAllTelegramIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}

	result := &models.BroadcastResult{}
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		msg := tgbotapi.NewMessage(id, text)
		if _, err := b.bot.Send(msg); err != nil {
			result.Failed++
			b.metrics.RecordBroadcast(false)
			b.logger.Warn("не удалось доставить рассылку",
				zap.Int64("telegram_id", id),
				zap.Error(err))
		} else {
			result.Sent++
			b.metrics.RecordBroadcast(true)
		}

		time.Sleep(b.interval)
	}

	b.logger.Info("рассылка завершена",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))

	return result, nil
}

// runBroadcast выполняет рассылку из админского мастера и отчитывается
// инициатору
func (h *Handler) runBroadcast(ctx context.Context, chatID int64, text string) error {
	broadcaster := NewBroadcaster(h.bot, h.store.User(), h.cfg.Invite.BroadcastPause(), h.metrics, h.logger)

	result, err := broadcaster.SendToAll(ctx, text)
	if err != nil {
		return fmt.Errorf("ошибка рассылки: %w", err)
	}

	return h.sendMessage(chatID, fmt.Sprintf("📢 Рассылка завершена: доставлено %d, не доставлено %d.", result.Sent, result.Failed))
}
