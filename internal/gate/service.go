package gate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"courses-bot/internal/store"
	"courses-bot/pkg/models"

	"go.uber.org/zap"
)

// ReferralPrefix метка реферальной нагрузки в /start
const ReferralPrefix = "ref_"

// Outcome результат проверки доступа
type Outcome string

const (
	// OutcomeEligible пользователь допущен к контенту
	OutcomeEligible Outcome = "eligible"
	// OutcomeBlocked пользователь заблокирован администратором
	OutcomeBlocked Outcome = "blocked"
	// OutcomeSubscribeRequired пользователь должен подписаться на канал
	OutcomeSubscribeRequired Outcome = "subscribe_required"
	// OutcomeInvitesRequired пользователь должен пригласить еще людей
	OutcomeInvitesRequired Outcome = "invites_required"
)

// Decision решение о доступе с данными для ответа пользователю
type Decision struct {
	Outcome      Outcome
	InvitesCount int    // текущее число засчитанных приглашений, для OutcomeInvitesRequired
	InviteLink   string // персональная ссылка-приглашение, для OutcomeInvitesRequired
}

// MembershipOracle отвечает на вопрос, состоит ли пользователь в канале
type MembershipOracle interface {
	IsMember(ctx context.Context, telegramID int64) (bool, error)
}

// Notifier доставляет служебные уведомления о засчитанных приглашениях.
// Доставка не влияет на решение о доступе.
type Notifier interface {
	ReferralCredited(referrerID, referredID int64, totalInvites int)
	CongratulateReferrer(referrerID int64)
}

// Service решает, допущен ли пользователь к закрытому контенту, и ровно один
// раз засчитывает приглашение пригласившему
type Service struct {
	users           store.UserRepository
	settings        store.SettingRepository
	oracle          MembershipOracle
	notifier        Notifier
	botUsername     string
	requiredInvites int
	logger          *zap.Logger
}

// NewService создает новый сервис контроля доступа
func NewService(
	users store.UserRepository,
	settings store.SettingRepository,
	oracle MembershipOracle,
	notifier Notifier,
	botUsername string,
	requiredInvites int,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:           users,
		settings:        settings,
		oracle:          oracle,
		notifier:        notifier,
		botUsername:     botUsername,
		requiredInvites: requiredInvites,
		logger:          logger,
	}
}

// EvaluateAccess проверяет доступ пользователя к закрытому контенту.
// Порядок проверок фиксированный, каждая завершает оценку:
// блокировка, подписка на канал, система приглашений. Повторный вызов для
// уже допущенного пользователя ничего не мутирует.
func (s *Service) EvaluateAccess(ctx context.Context, user *models.User) (Decision, error) {
	if user.Blocked {
		return Decision{Outcome: OutcomeBlocked}, nil
	}

	subscribed, err := s.oracle.IsMember(ctx, user.TelegramID)
	if err != nil {
		// Ошибка проверки трактуется как отсутствие подписки
		s.logger.Error("ошибка проверки подписки на канал",
			zap.Int64("telegram_id", user.TelegramID),
			zap.Error(err))
		subscribed = false
	}

	if !subscribed {
		return Decision{Outcome: OutcomeSubscribeRequired}, nil
	}

	// Первая подтвержденная подписка: фиксируем и засчитываем приглашение
	if !user.IsSubscribed {
		if err := s.users.MarkSubscribed(ctx, user.TelegramID); err != nil {
			return Decision{}, fmt.Errorf("ошибка отметки подписки: %w", err)
		}
		user.IsSubscribed = true

		s.creditReferrer(ctx, user)
	}

	enabled, err := s.inviteSystemEnabled(ctx)
	if err != nil {
		s.logger.Warn("ошибка чтения настройки системы приглашений", zap.Error(err))
	}

	if !enabled || user.Exempt || user.InvitesCount >= s.requiredInvites {
		return Decision{Outcome: OutcomeEligible}, nil
	}

	return Decision{
		Outcome:      OutcomeInvitesRequired,
		InvitesCount: user.InvitesCount,
		InviteLink:   s.InviteLink(user.TelegramID),
	}, nil
}

// creditReferrer засчитывает приглашение пригласившему, если оно еще не было
// засчитано. Любая ошибка здесь логируется и не мешает решению о доступе.
func (s *Service) creditReferrer(ctx context.Context, user *models.User) {
	if user.ReferrerID == nil || user.InviteRewarded {
		return
	}

	referrerID := *user.ReferrerID

	// Страховка: инвариант запрещает самоприглашение, но флаг проверяем всегда
	if referrerID == user.TelegramID {
		return
	}

	referrer, err := s.users.GetByTelegramID(ctx, referrerID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("ошибка получения пригласившего",
				zap.Int64("referrer_id", referrerID),
				zap.Error(err))
		}
		return
	}

	if referrer.Blocked {
		return
	}

	credited, err := s.users.CreditReferral(ctx, user.TelegramID, referrerID)
	if err != nil {
		s.logger.Error("ошибка зачета приглашения",
			zap.Int64("referred_id", user.TelegramID),
			zap.Int64("referrer_id", referrerID),
			zap.Error(err))
		return
	}
	if !credited {
		return
	}

	user.InviteRewarded = true
	totalInvites := referrer.InvitesCount + 1

	s.notifier.ReferralCredited(referrerID, user.TelegramID, totalInvites)

	if totalInvites >= s.requiredInvites || referrer.Exempt {
		s.notifier.CongratulateReferrer(referrerID)
	}
}

// RegisterReferrer запоминает пригласившего при первом контакте. Повторная
// регистрация и самоприглашение игнорируются; само по себе ничего не
// засчитывает.
func (s *Service) RegisterReferrer(ctx context.Context, telegramID, referrerID int64) error {
	if telegramID == referrerID {
		return nil
	}

	if err := s.users.SetReferrer(ctx, telegramID, referrerID); err != nil {
		return fmt.Errorf("ошибка регистрации пригласившего: %w", err)
	}

	return nil
}

// InviteLink формирует персональную ссылку-приглашение
func (s *Service) InviteLink(telegramID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", s.botUsername, ReferralPrefix, telegramID)
}

// RequiredInvites возвращает порог приглашений
func (s *Service) RequiredInvites() int {
	return s.requiredInvites
}

func (s *Service) inviteSystemEnabled(ctx context.Context) (bool, error) {
	value, err := s.settings.Get(ctx, models.SettingInviteSystemEnabled, "true")
	if err != nil {
		return true, err
	}
	return strings.EqualFold(value, "true"), nil
}

// ParseReferralPayload извлекает telegram_id пригласившего из нагрузки /start.
// Возвращает false, если нагрузка не реферальная или идентификатор не число.
func ParseReferralPayload(payload string) (int64, bool) {
	if !strings.HasPrefix(payload, ReferralPrefix) {
		return 0, false
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(payload, ReferralPrefix), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}
