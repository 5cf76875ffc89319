package bot

import (
	"context"
	"fmt"

	"courses-bot/internal/content"
	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// showAchievements показывает страницу достижений учеников. Раздел
// открытый, доступ не проверяем.
func (h *Handler) showAchievements(ctx context.Context, chatID int64, page int) error {
	achievements, err := h.store.Achievement().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения достижений: %w", err)
	}

	if len(achievements) == 0 {
		msg := tgbotapi.NewMessage(chatID, h.messages.NoAchievements())
		msg.ReplyMarkup = backToMainKeyboard()
		_, err := h.bot.Send(msg)
		return err
	}

	h.metrics.RecordContentView("achievements")

	p := content.Paginate(len(achievements), page, content.AchievementsPerPage)
	for _, achievement := range achievements[p.Start:p.End] {
		if err := h.sendAchievement(chatID, achievement); err != nil {
			h.logger.Error("ошибка отправки достижения",
				zap.Int64("achievement_id", achievement.ID),
				zap.Error(err))
		}
	}

	// Навигация отдельным сообщением после содержимого страницы
	msg := tgbotapi.NewMessage(chatID, h.messages.BrowseMore())
	msg.ReplyMarkup = pagedKeyboard(p, "achievements_page_")
	_, err = h.bot.Send(msg)
	return err
}

// sendAchievement отправляет одно достижение сообразно его типу
func (h *Handler) sendAchievement(chatID int64, achievement *models.Achievement) error {
	switch achievement.Kind {
	case models.AchievementText:
		text := achievement.Payload
		if achievement.Caption != "" {
			text = achievement.Caption + "\n\n" + text
		}
		return h.sendMessage(chatID, text)

	case models.AchievementPhoto:
		msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(achievement.Payload))
		msg.Caption = achievement.Caption
		_, err := h.bot.Send(msg)
		return err

	case models.AchievementVideo:
		msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(achievement.Payload))
		msg.Caption = achievement.Caption
		_, err := h.bot.Send(msg)
		return err

	default:
		return fmt.Errorf("неизвестный тип достижения: %s", achievement.Kind)
	}
}

// showArticles показывает статью на текущей странице (по одной за раз)
func (h *Handler) showArticles(ctx context.Context, chatID int64, page int) error {
	articles, err := h.store.Article().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения статей: %w", err)
	}

	if len(articles) == 0 {
		msg := tgbotapi.NewMessage(chatID, h.messages.NoArticles())
		msg.ReplyMarkup = backToMainKeyboard()
		_, err := h.bot.Send(msg)
		return err
	}

	h.metrics.RecordContentView("articles")

	p := content.Paginate(len(articles), page, content.ArticlesPerPage)
	article := articles[p.Start]

	text := fmt.Sprintf("<b>%s</b>\n\n%s", article.Title, article.Content)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = pagedKeyboard(p, "articles_page_")
	_, err = h.bot.Send(msg)
	return err
}
