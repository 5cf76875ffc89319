package bot

import (
	"courses-bot/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier доставляет служебные уведомления о приглашениях. Доставка
// best-effort: ошибки логируются и не возвращаются вызывающему.
type Notifier struct {
	bot             *tgbotapi.BotAPI
	operatorID      int64
	requiredInvites int
	messages        *Messages
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewNotifier создает новый отправитель уведомлений
func NewNotifier(bot *tgbotapi.BotAPI, operatorID int64, requiredInvites int, m *metrics.Metrics, logger *zap.Logger) *Notifier {
	return &Notifier{
		bot:             bot,
		operatorID:      operatorID,
		requiredInvites: requiredInvites,
		messages:        NewMessages(),
		metrics:         m,
		logger:          logger,
	}
}

// ReferralCredited уведомляет оператора о засчитанном приглашении
func (n *Notifier) ReferralCredited(referrerID, referredID int64, totalInvites int) {
	n.metrics.RecordReferralCredit()

	if n.operatorID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(n.operatorID, n.messages.ReferralCredited(referrerID, referredID, totalInvites))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn("не удалось уведомить оператора о приглашении",
			zap.Int64("referrer_id", referrerID),
			zap.Error(err))
	}
}

// CongratulateReferrer поздравляет пригласившего с открытием доступа
func (n *Notifier) CongratulateReferrer(referrerID int64) {
	msg := tgbotapi.NewMessage(referrerID, n.messages.Congratulation(n.requiredInvites))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn("не удалось поздравить пригласившего",
			zap.Int64("referrer_id", referrerID),
			zap.Error(err))
	}
}
