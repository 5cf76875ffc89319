package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"courses-bot/internal/config"
	"courses-bot/internal/gate"
	"courses-bot/internal/metrics"
	"courses-bot/internal/store"
	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	// Лимиты безопасности
	MaxTextLength     = 4000 // Максимальная длина текста сообщения
	MaxUsernameLength = 32   // Максимальная длина username

	// Rate limiting
	MaxRequestsPerMinute = 30 // Максимум запросов в минуту на пользователя
	RateLimitWindow      = time.Minute
)

// RateLimiter простой rate limiter для пользователей
type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
}

// NewRateLimiter создает новый rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
	}
}

// IsAllowed проверяет, разрешен ли запрос для пользователя
func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	userRequests := rl.requests[userID]

	// Удаляем старые запросы
	var validRequests []time.Time
	for _, reqTime := range userRequests {
		if now.Sub(reqTime) < RateLimitWindow {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= MaxRequestsPerMinute {
		rl.requests[userID] = validRequests
		return false
	}

	validRequests = append(validRequests, now)
	rl.requests[userID] = validRequests
	return true
}

// Handler представляет обработчик сообщений Telegram
type Handler struct {
	bot         *tgbotapi.BotAPI
	store       store.Store
	gateService *gate.Service
	messages    *Messages
	sessions    *SessionStore
	metrics     *metrics.Metrics
	cfg         *config.Config
	rateLimiter *RateLimiter
	logger      *zap.Logger
}

// NewHandler создает новый обработчик
func NewHandler(
	bot *tgbotapi.BotAPI,
	st store.Store,
	gateService *gate.Service,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		store:       st,
		gateService: gateService,
		messages:    NewMessages(),
		sessions:    NewSessionStore(),
		metrics:     m,
		cfg:         cfg,
		rateLimiter: NewRateLimiter(),
		logger:      logger,
	}
}

// HandleUpdate обрабатывает входящее обновление. Ошибки не выходят за
// границу одного обновления: пользователю уходит общее извинение, ошибка
// логируется вызывающим.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	var userID, chatID int64
	if update.Message != nil {
		userID = update.Message.From.ID
		chatID = update.Message.Chat.ID
	} else if update.CallbackQuery != nil {
		userID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	} else {
		return nil
	}

	// Проверяем rate limit
	if userID != 0 && !h.rateLimiter.IsAllowed(userID) {
		h.logger.Warn("rate limit exceeded", zap.Int64("user_id", userID))
		if update.Message != nil {
			return h.sendMessage(chatID, "⚠️ Слишком много запросов. Подождите минуту.")
		}
		return nil
	}

	err := h.route(ctx, update)
	if err != nil && chatID != 0 {
		_ = h.sendMessage(chatID, h.messages.InternalError())
	}

	return err
}

// route направляет обновление нужному обработчику
func (h *Handler) route(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	message := update.Message

	h.logger.Debug("получено обновление",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("text", message.Text),
		zap.String("username", message.From.UserName))

	// Получаем или создаем пользователя с валидацией
	user, err := h.upsertUser(ctx, message.From)
	if err != nil {
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if message.IsCommand() {
		return h.handleCommand(ctx, message, user)
	}

	// Тексты и медиа вне команд интересны только админским мастерам
	if h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return h.handleAdminInput(ctx, message, user)
	}

	return nil
}

// handleCommand обрабатывает команды
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	switch message.Command() {
	case "start":
		return h.handleStartCommand(ctx, message, user)
	case "admin":
		return h.handleAdminCommand(ctx, message, user)
	case "done":
		return h.handleDoneCommand(ctx, message, user)
	case "skip":
		return h.handleSkipCommand(ctx, message, user)
	case "cancel":
		return h.handleCancelCommand(ctx, message, user)
	default:
		return h.sendMessage(message.Chat.ID, h.messages.UnknownCommand())
	}
}

// handleStartCommand обрабатывает /start с возможной реферальной нагрузкой
func (h *Handler) handleStartCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	if referrerID, ok := gate.ParseReferralPayload(message.CommandArguments()); ok {
		if err := h.gateService.RegisterReferrer(ctx, user.TelegramID, referrerID); err != nil {
			h.logger.Error("ошибка регистрации пригласившего",
				zap.Int64("telegram_id", user.TelegramID),
				zap.Error(err))
		}
	}

	eligible, err := h.checkAccess(ctx, message.Chat.ID, user)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, h.messages.Welcome(user.FirstName))
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err = h.bot.Send(msg)
	return err
}

// checkAccess проверяет доступ и отвечает пользователю при отказе.
// Возвращает true, когда пользователь допущен к закрытому контенту.
func (h *Handler) checkAccess(ctx context.Context, chatID int64, user *models.User) (bool, error) {
	decision, err := h.gateService.EvaluateAccess(ctx, user)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки доступа: %w", err)
	}

	h.metrics.RecordGateDecision(string(decision.Outcome))

	switch decision.Outcome {
	case gate.OutcomeEligible:
		return true, nil

	case gate.OutcomeBlocked:
		return false, h.sendMessage(chatID, h.messages.Banned())

	case gate.OutcomeSubscribeRequired:
		msg := tgbotapi.NewMessage(chatID, h.messages.SubscribeRequired(h.cfg.Telegram.RequiredChannel))
		msg.ReplyMarkup = subscribeKeyboard(h.cfg.Telegram.RequiredChannel)
		_, err := h.bot.Send(msg)
		return false, err

	case gate.OutcomeInvitesRequired:
		text := h.messages.InvitesRequired(decision.InvitesCount, h.gateService.RequiredInvites(), decision.InviteLink)
		return false, h.sendMessage(chatID, text)

	default:
		return false, fmt.Errorf("неизвестный исход проверки доступа: %s", decision.Outcome)
	}
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return nil
	}

	user, err := h.upsertUser(ctx, callback.From)
	if err != nil {
		return fmt.Errorf("ошибка получения пользователя для callback: %w", err)
	}

	// Отвечаем на callback (убираем "загрузку" кнопки)
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.bot.Request(callbackConfig); err != nil {
		h.logger.Error("ошибка ответа на callback", zap.Error(err))
	}

	data := callback.Data
	chatID := callback.Message.Chat.ID

	h.logger.Debug("обрабатываем callback",
		zap.String("data", data),
		zap.Int64("user_id", user.TelegramID))

	switch {
	case data == "back_to_main":
		return h.editToMainMenu(callback)

	case data == "main_about":
		return h.showAbout(callback)

	case data == "main_donate":
		return h.showDonation(callback)

	case data == "verify_subscription":
		return h.handleVerifySubscription(ctx, callback, user)

	case data == "main_courses":
		return h.showCourses(ctx, callback, user, 0)

	case strings.HasPrefix(data, "page_"):
		page, err := parseSuffixInt(data, "page_")
		if err != nil {
			return err
		}
		return h.showCourses(ctx, callback, user, page)

	case strings.HasPrefix(data, "course_"):
		courseID, err := parseSuffixInt64(data, "course_")
		if err != nil {
			return err
		}
		return h.openCourse(ctx, callback, user, courseID)

	case data == "prev_video" || data == "next_video":
		return h.navigateVideo(ctx, callback, user, data)

	case data == "main_achievements":
		return h.showAchievements(ctx, chatID, 0)

	case strings.HasPrefix(data, "achievements_page_"):
		page, err := parseSuffixInt(data, "achievements_page_")
		if err != nil {
			return err
		}
		return h.showAchievements(ctx, chatID, page)

	case data == "main_articles":
		return h.showArticles(ctx, chatID, 0)

	case strings.HasPrefix(data, "articles_page_"):
		page, err := parseSuffixInt(data, "articles_page_")
		if err != nil {
			return err
		}
		return h.showArticles(ctx, chatID, page)

	case strings.HasPrefix(data, "admin_") || strings.HasPrefix(data, "achievement_type_") ||
		strings.HasPrefix(data, "del_course_") || strings.HasPrefix(data, "del_achievement_") ||
		strings.HasPrefix(data, "del_article_"):
		return h.handleAdminCallback(ctx, callback, user)

	default:
		h.logger.Warn("неизвестный callback", zap.String("data", data))
		return nil
	}
}

// handleVerifySubscription перепроверяет подписку по кнопке
func (h *Handler) handleVerifySubscription(ctx context.Context, callback *tgbotapi.CallbackQuery, user *models.User) error {
	chatID := callback.Message.Chat.ID

	// Старое приглашение подписаться больше не нужно
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, callback.Message.MessageID)
	if _, err := h.bot.Request(deleteMsg); err != nil {
		h.logger.Warn("не удалось удалить сообщение", zap.Error(err))
	}

	eligible, err := h.checkAccess(ctx, chatID, user)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, h.messages.SubscriptionVerified())
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err = h.bot.Send(msg)
	return err
}

// editToMainMenu возвращает сообщение к главному меню
func (h *Handler) editToMainMenu(callback *tgbotapi.CallbackQuery) error {
	markup := mainMenuKeyboard()
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, h.messages.WelcomeBack())
	edit.ReplyMarkup = &markup

	if _, err := h.bot.Send(edit); err != nil {
		// Сообщение могло быть медиа без текста, шлем новое
		msg := tgbotapi.NewMessage(callback.Message.Chat.ID, h.messages.WelcomeBack())
		msg.ReplyMarkup = markup
		_, err = h.bot.Send(msg)
		return err
	}

	return nil
}

// showAbout показывает описание бота
func (h *Handler) showAbout(callback *tgbotapi.CallbackQuery) error {
	markup := backToMainKeyboard()
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, h.messages.About())
	edit.ParseMode = "HTML"
	edit.ReplyMarkup = &markup
	_, err := h.bot.Send(edit)
	return err
}

// showDonation показывает раздел поддержки
func (h *Handler) showDonation(callback *tgbotapi.CallbackQuery) error {
	markup := donationKeyboard(h.cfg.Telegram.DonationTarget)
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, h.messages.Donation(h.cfg.Telegram.DonationTarget))
	edit.ParseMode = "HTML"
	edit.ReplyMarkup = &markup
	_, err := h.bot.Send(edit)
	return err
}

// upsertUser получает или создает пользователя с валидацией входных данных
func (h *Handler) upsertUser(ctx context.Context, from *tgbotapi.User) (*models.User, error) {
	return h.store.User().Upsert(ctx, &models.CreateUserRequest{
		TelegramID: from.ID,
		Username:   h.sanitizeUsername(from.UserName),
		FirstName:  h.sanitizeText(from.FirstName),
		LastName:   h.sanitizeText(from.LastName),
	})
}

// sanitizeText очищает текст от потенциально опасного содержимого
func (h *Handler) sanitizeText(text string) string {
	// Ограничиваем длину
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}

	// Проверяем валидность UTF-8
	if !utf8.ValidString(text) {
		text = string([]rune(text))
	}

	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r", "")

	return strings.TrimSpace(text)
}

// sanitizeUsername очищает username от опасных символов
func (h *Handler) sanitizeUsername(username string) string {
	if len(username) > MaxUsernameLength {
		username = username[:MaxUsernameLength]
	}

	reg := regexp.MustCompile(`[^a-zA-Z0-9_]`)
	return reg.ReplaceAllString(username, "")
}

// sendMessage отправляет простое текстовое сообщение
func (h *Handler) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.bot.Send(msg)
	return err
}
