package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleAdminCommand показывает админскую панель
func (h *Handler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	if !h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return h.sendMessage(message.Chat.ID, h.messages.AdminsOnly())
	}

	return h.sendAdminPanel(ctx, message.Chat.ID)
}

// sendAdminPanel отправляет панель с актуальным состоянием пригласительной системы
func (h *Handler) sendAdminPanel(ctx context.Context, chatID int64) error {
	enabled, err := h.inviteSystemEnabled(ctx)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "🛠 Панель администратора")
	msg.ReplyMarkup = adminPanelKeyboard(enabled)
	_, err = h.bot.Send(msg)
	return err
}

func (h *Handler) inviteSystemEnabled(ctx context.Context) (bool, error) {
	value, err := h.store.Setting().Get(ctx, models.SettingInviteSystemEnabled, "true")
	if err != nil {
		return false, fmt.Errorf("ошибка чтения настройки: %w", err)
	}
	return value == "true", nil
}

// handleAdminCallback обрабатывает кнопки админской панели
func (h *Handler) handleAdminCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, user *models.User) error {
	if !h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return h.sendMessage(callback.Message.Chat.ID, h.messages.AdminsOnly())
	}

	chatID := callback.Message.Chat.ID
	session := h.sessions.Get(user.TelegramID)
	data := callback.Data

	switch {
	case data == "admin_cancel":
		session.ResetAdmin()
		return h.sendAdminPanel(ctx, chatID)

	case data == "admin_new_course":
		session.ResetAdmin()
		session.AdminState = StateAwaitingCourseName
		return h.sendMessage(chatID, "📚 Введите название нового курса:")

	case data == "admin_delete_course":
		return h.showCourseDeleteList(ctx, chatID)

	case strings.HasPrefix(data, "del_course_"):
		courseID, err := parseSuffixInt64(data, "del_course_")
		if err != nil {
			return err
		}
		if err := h.store.Course().Delete(ctx, courseID); err != nil {
			return fmt.Errorf("ошибка удаления курса %d: %w", courseID, err)
		}
		h.logger.Info("курс удален", zap.Int64("course_id", courseID), zap.Int64("admin_id", user.TelegramID))
		return h.sendMessage(chatID, "🗑 Курс удален.")

	case data == "admin_new_achievement":
		session.ResetAdmin()
		msg := tgbotapi.NewMessage(chatID, "🏆 Выберите тип достижения:")
		msg.ReplyMarkup = achievementTypeKeyboard()
		_, err := h.bot.Send(msg)
		return err

	case strings.HasPrefix(data, "achievement_type_"):
		kind := models.AchievementKind(strings.TrimPrefix(data, "achievement_type_"))
		if !kind.IsValid() {
			return fmt.Errorf("неизвестный тип достижения: %s", kind)
		}
		session.AchievementDraft = &AchievementDraft{Kind: kind}
		session.AdminState = StateAwaitingAchievementContent
		switch kind {
		case models.AchievementText:
			return h.sendMessage(chatID, "✍️ Отправьте текст достижения:")
		case models.AchievementPhoto:
			return h.sendMessage(chatID, "📷 Отправьте фотографию достижения:")
		default:
			return h.sendMessage(chatID, "🎬 Отправьте видео достижения:")
		}

	case data == "admin_delete_achievement":
		return h.showAchievementDeleteList(ctx, chatID)

	case strings.HasPrefix(data, "del_achievement_"):
		achievementID, err := parseSuffixInt64(data, "del_achievement_")
		if err != nil {
			return err
		}
		if err := h.store.Achievement().Delete(ctx, achievementID); err != nil {
			return fmt.Errorf("ошибка удаления достижения %d: %w", achievementID, err)
		}
		return h.sendMessage(chatID, "🗑 Достижение удалено.")

	case data == "admin_new_article":
		session.ResetAdmin()
		session.AdminState = StateAwaitingArticleTitle
		return h.sendMessage(chatID, "📰 Введите заголовок статьи:")

	case data == "admin_delete_article":
		return h.showArticleDeleteList(ctx, chatID)

	case strings.HasPrefix(data, "del_article_"):
		articleID, err := parseSuffixInt64(data, "del_article_")
		if err != nil {
			return err
		}
		if err := h.store.Article().Delete(ctx, articleID); err != nil {
			return fmt.Errorf("ошибка удаления статьи %d: %w", articleID, err)
		}
		return h.sendMessage(chatID, "🗑 Статья удалена.")

	case data == "admin_broadcast":
		session.ResetAdmin()
		session.AdminState = StateAwaitingBroadcastText
		return h.sendMessage(chatID, "📢 Введите текст рассылки:")

	case data == "admin_ban_user":
		session.ResetAdmin()
		session.AdminState = StateAwaitingBanID
		return h.sendMessage(chatID, "🚫 Введите Telegram ID пользователя для блокировки:")

	case data == "admin_unban_user":
		session.ResetAdmin()
		session.AdminState = StateAwaitingUnbanID
		return h.sendMessage(chatID, "✅ Введите Telegram ID пользователя для разблокировки:")

	case data == "admin_exempt_user":
		session.ResetAdmin()
		session.AdminState = StateAwaitingExemptID
		return h.sendMessage(chatID, "🎟 Введите Telegram ID пользователя для освобождения от приглашений:")

	case data == "admin_toggle_invite":
		enabled, err := h.inviteSystemEnabled(ctx)
		if err != nil {
			return err
		}
		newValue := "true"
		if enabled {
			newValue = "false"
		}
		if err := h.store.Setting().Set(ctx, models.SettingInviteSystemEnabled, newValue); err != nil {
			return fmt.Errorf("ошибка переключения пригласительной системы: %w", err)
		}
		h.logger.Info("пригласительная система переключена",
			zap.String("value", newValue),
			zap.Int64("admin_id", user.TelegramID))
		return h.sendAdminPanel(ctx, chatID)

	default:
		h.logger.Warn("неизвестный админский callback", zap.String("data", data))
		return nil
	}
}

// showCourseDeleteList показывает курсы с кнопками удаления
func (h *Handler) showCourseDeleteList(ctx context.Context, chatID int64) error {
	courses, err := h.store.Course().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения курсов: %w", err)
	}

	if len(courses) == 0 {
		return h.sendMessage(chatID, h.messages.NoCourses())
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, course := range courses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+course.Name, fmt.Sprintf("del_course_%d", course.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "admin_cancel"),
	))

	msg := tgbotapi.NewMessage(chatID, "Выберите курс для удаления:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = h.bot.Send(msg)
	return err
}

// showAchievementDeleteList показывает достижения с кнопками удаления
func (h *Handler) showAchievementDeleteList(ctx context.Context, chatID int64) error {
	achievements, err := h.store.Achievement().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения достижений: %w", err)
	}

	if len(achievements) == 0 {
		return h.sendMessage(chatID, h.messages.NoAchievements())
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, achievement := range achievements {
		label := fmt.Sprintf("🗑 #%d (%s)", achievement.ID, achievement.Kind)
		if achievement.Caption != "" {
			label = fmt.Sprintf("🗑 %s", truncateLabel(achievement.Caption, 30))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("del_achievement_%d", achievement.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "admin_cancel"),
	))

	msg := tgbotapi.NewMessage(chatID, "Выберите достижение для удаления:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = h.bot.Send(msg)
	return err
}

// showArticleDeleteList показывает статьи с кнопками удаления
func (h *Handler) showArticleDeleteList(ctx context.Context, chatID int64) error {
	articles, err := h.store.Article().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения статей: %w", err)
	}

	if len(articles) == 0 {
		return h.sendMessage(chatID, h.messages.NoArticles())
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, article := range articles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+truncateLabel(article.Title, 30), fmt.Sprintf("del_article_%d", article.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "admin_cancel"),
	))

	msg := tgbotapi.NewMessage(chatID, "Выберите статью для удаления:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = h.bot.Send(msg)
	return err
}

// handleAdminInput обрабатывает ввод в рамках админского мастера
func (h *Handler) handleAdminInput(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	session := h.sessions.Get(user.TelegramID)
	chatID := message.Chat.ID

	switch session.AdminState {
	case StateAwaitingCourseName:
		name := h.sanitizeText(message.Text)
		if name == "" {
			return h.sendMessage(chatID, "Название не может быть пустым. Введите название курса:")
		}
		session.CourseDraft = &CourseDraft{Name: name}
		session.AdminState = StateReceivingVideos
		return h.sendMessage(chatID, "🎬 Отправляйте видео курса по порядку. Когда закончите, введите /done.")

	case StateReceivingVideos:
		if message.Video == nil {
			return h.sendMessage(chatID, "Ожидается видео. Отправьте видео или завершите командой /done.")
		}
		return h.acceptCourseVideo(message, session)

	case StateAwaitingAchievementContent:
		return h.acceptAchievementContent(message, session)

	case StateAwaitingAchievementCaption:
		caption := h.sanitizeText(message.Text)
		if caption == "" {
			return h.sendMessage(chatID, "Подпись не может быть пустой. Введите подпись или /skip:")
		}
		return h.createAchievement(ctx, chatID, session, caption)

	case StateAwaitingArticleTitle:
		title := h.sanitizeText(message.Text)
		if title == "" {
			return h.sendMessage(chatID, "Заголовок не может быть пустым. Введите заголовок статьи:")
		}
		session.ArticleDraft = &ArticleDraft{Title: title}
		session.AdminState = StateAwaitingArticleContent
		return h.sendMessage(chatID, "📝 Введите текст статьи:")

	case StateAwaitingArticleContent:
		text := h.sanitizeText(message.Text)
		if text == "" {
			return h.sendMessage(chatID, "Текст не может быть пустым. Введите текст статьи:")
		}
		if _, err := h.store.Article().Create(ctx, session.ArticleDraft.Title, text); err != nil {
			return fmt.Errorf("ошибка создания статьи: %w", err)
		}
		session.ResetAdmin()
		return h.sendMessage(chatID, "✅ Статья опубликована.")

	case StateAwaitingBroadcastText:
		text := h.sanitizeText(message.Text)
		if text == "" {
			return h.sendMessage(chatID, "Текст рассылки не может быть пустым. Введите текст:")
		}
		session.ResetAdmin()
		return h.runBroadcast(ctx, chatID, text)

	case StateAwaitingBanID:
		targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
		if err != nil {
			return h.sendMessage(chatID, "Нужен числовой Telegram ID. Попробуйте еще раз:")
		}
		if err := h.store.User().SetBlocked(ctx, targetID, true); err != nil {
			return fmt.Errorf("ошибка блокировки пользователя %d: %w", targetID, err)
		}
		h.logger.Info("пользователь заблокирован",
			zap.Int64("telegram_id", targetID),
			zap.Int64("admin_id", user.TelegramID))
		session.ResetAdmin()
		return h.sendMessage(chatID, fmt.Sprintf("🚫 Пользователь %d заблокирован.", targetID))

	case StateAwaitingUnbanID:
		targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
		if err != nil {
			return h.sendMessage(chatID, "Нужен числовой Telegram ID. Попробуйте еще раз:")
		}
		if err := h.store.User().SetBlocked(ctx, targetID, false); err != nil {
			return fmt.Errorf("ошибка разблокировки пользователя %d: %w", targetID, err)
		}
		h.logger.Info("пользователь разблокирован",
			zap.Int64("telegram_id", targetID),
			zap.Int64("admin_id", user.TelegramID))
		session.ResetAdmin()
		return h.sendMessage(chatID, fmt.Sprintf("✅ Пользователь %d разблокирован.", targetID))

	case StateAwaitingExemptID:
		targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
		if err != nil {
			return h.sendMessage(chatID, "Нужен числовой Telegram ID. Попробуйте еще раз:")
		}
		if err := h.store.User().SetExempt(ctx, targetID, true); err != nil {
			return fmt.Errorf("ошибка освобождения пользователя %d: %w", targetID, err)
		}
		h.logger.Info("пользователь освобожден от приглашений",
			zap.Int64("telegram_id", targetID),
			zap.Int64("admin_id", user.TelegramID))
		session.ResetAdmin()
		return h.sendMessage(chatID, fmt.Sprintf("🎟 Пользователь %d освобожден от приглашений.", targetID))

	default:
		return nil
	}
}

// acceptCourseVideo принимает очередное видео добавляемого курса и
// пересылает его в архивный канал
func (h *Handler) acceptCourseVideo(message *tgbotapi.Message, session *Session) error {
	chatID := message.Chat.ID

	channelMessageID := 0
	if h.cfg.Telegram.ArchiveChannel != 0 {
		forward := tgbotapi.NewForward(h.cfg.Telegram.ArchiveChannel, chatID, message.MessageID)
		sent, err := h.bot.Send(forward)
		if err != nil {
			h.logger.Warn("не удалось переслать видео в архивный канал", zap.Error(err))
		} else {
			channelMessageID = sent.MessageID
		}
	}

	session.CourseDraft.Videos = append(session.CourseDraft.Videos, DraftVideo{
		FileID:           message.Video.FileID,
		ChannelMessageID: channelMessageID,
	})

	return h.sendMessage(chatID, fmt.Sprintf("✅ Видео %d принято. Отправьте следующее или /done.", len(session.CourseDraft.Videos)))
}

// acceptAchievementContent принимает содержимое достижения сообразно типу
func (h *Handler) acceptAchievementContent(message *tgbotapi.Message, session *Session) error {
	chatID := message.Chat.ID
	draft := session.AchievementDraft

	switch draft.Kind {
	case models.AchievementText:
		text := h.sanitizeText(message.Text)
		if text == "" {
			return h.sendMessage(chatID, "Ожидается текст достижения:")
		}
		draft.Payload = text

	case models.AchievementPhoto:
		if len(message.Photo) == 0 {
			return h.sendMessage(chatID, "Ожидается фотография достижения:")
		}
		// Телеграм присылает несколько размеров, берем самый крупный
		draft.Payload = message.Photo[len(message.Photo)-1].FileID

	case models.AchievementVideo:
		if message.Video == nil {
			return h.sendMessage(chatID, "Ожидается видео достижения:")
		}
		draft.Payload = message.Video.FileID
	}

	session.AdminState = StateAwaitingAchievementCaption
	return h.sendMessage(chatID, "✍️ Введите подпись к достижению или /skip, чтобы оставить без подписи.")
}

// createAchievement сохраняет достижение из черновика
func (h *Handler) createAchievement(ctx context.Context, chatID int64, session *Session, caption string) error {
	draft := session.AchievementDraft
	if _, err := h.store.Achievement().Create(ctx, draft.Kind, draft.Payload, caption); err != nil {
		return fmt.Errorf("ошибка создания достижения: %w", err)
	}

	session.ResetAdmin()
	return h.sendMessage(chatID, "✅ Достижение добавлено.")
}

// handleDoneCommand завершает добавление курса
func (h *Handler) handleDoneCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	if !h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return nil
	}

	session := h.sessions.Get(user.TelegramID)
	chatID := message.Chat.ID

	if session.AdminState != StateReceivingVideos {
		return h.sendMessage(chatID, "Сейчас нечего завершать.")
	}

	draft := session.CourseDraft
	if len(draft.Videos) == 0 {
		return h.sendMessage(chatID, "В курсе нет ни одного видео. Отправьте видео или /cancel.")
	}

	courseID, err := h.store.Course().Create(ctx, draft.Name)
	if err != nil {
		return fmt.Errorf("ошибка создания курса: %w", err)
	}

	for _, video := range draft.Videos {
		if err := h.store.Course().AddVideo(ctx, courseID, video.FileID, video.ChannelMessageID); err != nil {
			return fmt.Errorf("ошибка добавления видео в курс %d: %w", courseID, err)
		}
	}

	h.logger.Info("курс создан",
		zap.Int64("course_id", courseID),
		zap.String("name", draft.Name),
		zap.Int("videos", len(draft.Videos)),
		zap.Int64("admin_id", user.TelegramID))

	session.ResetAdmin()
	return h.sendMessage(chatID, fmt.Sprintf("✅ Курс «%s» создан: %d видео.", draft.Name, len(draft.Videos)))
}

// handleSkipCommand пропускает подпись достижения
func (h *Handler) handleSkipCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	if !h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return nil
	}

	session := h.sessions.Get(user.TelegramID)
	if session.AdminState != StateAwaitingAchievementCaption {
		return h.sendMessage(message.Chat.ID, "Сейчас нечего пропускать.")
	}

	return h.createAchievement(ctx, message.Chat.ID, session, "")
}

// handleCancelCommand отменяет текущий админский диалог
func (h *Handler) handleCancelCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) error {
	if !h.cfg.Telegram.IsAdmin(user.TelegramID) {
		return nil
	}

	session := h.sessions.Get(user.TelegramID)
	session.ResetAdmin()
	return h.sendMessage(message.Chat.ID, "❌ Действие отменено.")
}

// truncateLabel обрезает текст для кнопки
func truncateLabel(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
