package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"courses-bot/internal/content"
	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// showCourses показывает страницу списка курсов. Раздел закрытый:
// сначала проверяем доступ.
func (h *Handler) showCourses(ctx context.Context, callback *tgbotapi.CallbackQuery, user *models.User, page int) error {
	chatID := callback.Message.Chat.ID

	eligible, err := h.checkAccess(ctx, chatID, user)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	courses, err := h.store.Course().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения курсов: %w", err)
	}

	if len(courses) == 0 {
		markup := backToMainKeyboard()
		edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, h.messages.NoCourses())
		edit.ReplyMarkup = &markup
		if _, err := h.bot.Send(edit); err != nil {
			msg := tgbotapi.NewMessage(chatID, h.messages.NoCourses())
			msg.ReplyMarkup = markup
			_, err = h.bot.Send(msg)
			return err
		}
		return nil
	}

	h.metrics.RecordContentView("courses")

	p := content.Paginate(len(courses), page, content.CoursesPerPage)
	markup := coursesKeyboard(courses, p)

	edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, h.messages.ChooseCourse())
	edit.ReplyMarkup = &markup
	if _, err := h.bot.Send(edit); err != nil {
		msg := tgbotapi.NewMessage(chatID, h.messages.ChooseCourse())
		msg.ReplyMarkup = markup
		_, err = h.bot.Send(msg)
		return err
	}

	return nil
}

// openCourse открывает курс и показывает первое видео
func (h *Handler) openCourse(ctx context.Context, callback *tgbotapi.CallbackQuery, user *models.User, courseID int64) error {
	chatID := callback.Message.Chat.ID

	eligible, err := h.checkAccess(ctx, chatID, user)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	videos, err := h.store.Course().GetVideos(ctx, courseID)
	if err != nil {
		return fmt.Errorf("ошибка получения видео курса %d: %w", courseID, err)
	}

	if len(videos) == 0 {
		return h.sendMessage(chatID, h.messages.CourseEmpty())
	}

	session := h.sessions.Get(user.TelegramID)
	session.Cursor = content.OpenCursor(courseID)

	h.logger.Info("пользователь открыл курс",
		zap.Int64("telegram_id", user.TelegramID),
		zap.Int64("course_id", courseID))

	return h.showVideo(chatID, videos, session.Cursor)
}

// navigateVideo листает видео внутри открытого курса
func (h *Handler) navigateVideo(ctx context.Context, callback *tgbotapi.CallbackQuery, user *models.User, direction string) error {
	chatID := callback.Message.Chat.ID

	eligible, err := h.checkAccess(ctx, chatID, user)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	session := h.sessions.Get(user.TelegramID)
	if session.Cursor == nil {
		// Курсор потерян (например, после рестарта) — возвращаем к списку
		return h.showCourses(ctx, callback, user, 0)
	}

	videos, err := h.store.Course().GetVideos(ctx, session.Cursor.CourseID)
	if err != nil {
		return fmt.Errorf("ошибка получения видео курса %d: %w", session.Cursor.CourseID, err)
	}

	if len(videos) == 0 {
		session.Cursor = nil
		return h.sendMessage(chatID, h.messages.CourseEmpty())
	}

	session.Cursor.Clamp(len(videos))

	switch direction {
	case "prev_video":
		if !session.Cursor.HasPrev() {
			return nil
		}
		session.Cursor.Prev()
	case "next_video":
		if !session.Cursor.HasNext(len(videos)) {
			return nil
		}
		session.Cursor.Next(len(videos))
	}

	// Старое видео убираем, чтобы в чате оставалось одно
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, callback.Message.MessageID)
	if _, err := h.bot.Request(deleteMsg); err != nil {
		h.logger.Warn("не удалось удалить видео", zap.Error(err))
	}

	return h.showVideo(chatID, videos, session.Cursor)
}

// showVideo отправляет видео под текущим курсором
func (h *Handler) showVideo(chatID int64, videos []*models.Video, cursor *content.VideoCursor) error {
	video := videos[cursor.Index]

	msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(video.FileID))
	msg.Caption = h.messages.VideoCaption(cursor.Index+1, len(videos))
	msg.ReplyMarkup = videoKeyboard(cursor, len(videos))

	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("ошибка отправки видео",
			zap.Int64("chat_id", chatID),
			zap.String("file_id", video.FileID),
			zap.Error(err))
		return h.sendMessage(chatID, h.messages.DeliveryError())
	}

	h.metrics.RecordContentView("video")
	return nil
}

// parseSuffixInt извлекает номер страницы из callback data
func parseSuffixInt(data, prefix string) (int, error) {
	value, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, fmt.Errorf("некорректный callback %q: %w", data, err)
	}
	return value, nil
}

// parseSuffixInt64 извлекает идентификатор из callback data
func parseSuffixInt64(data, prefix string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный callback %q: %w", data, err)
	}
	return value, nil
}
