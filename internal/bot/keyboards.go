package bot

import (
	"fmt"

	"courses-bot/internal/content"
	"courses-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mainMenuKeyboard возвращает клавиатуру главного меню
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Список курсов", "main_courses"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Галерея достижений", "main_achievements"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Статьи", "main_articles"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ О боте", "main_about"),
			tgbotapi.NewInlineKeyboardButtonData("⭐ Поддержать", "main_donate"),
		),
	)
}

// backToMainKeyboard возвращает кнопку возврата в главное меню
func backToMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "back_to_main"),
		),
	)
}

// subscribeKeyboard возвращает клавиатуру приглашения подписаться
func subscribeKeyboard(channel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Открыть канал", fmt.Sprintf("https://t.me/%s", channel[1:])),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Проверить подписку", "verify_subscription"),
		),
	)
}

// navigationRow собирает ряд перехода по страницам. Пустой ряд, когда
// коллекция помещается на одной странице.
func navigationRow(page content.Page, prefix string) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if page.HasPrev {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", fmt.Sprintf("%s%d", prefix, page.Index-1)))
	}
	if page.HasNext {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Вперед ➡️", fmt.Sprintf("%s%d", prefix, page.Index+1)))
	}
	return row
}

// coursesKeyboard возвращает клавиатуру страницы списка курсов
func coursesKeyboard(courses []*models.Course, page content.Page) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, course := range courses[page.Start:page.End] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(course.Name, fmt.Sprintf("course_%d", course.ID)),
		))
	}

	if nav := navigationRow(page, "page_"); len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "back_to_main"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// pagedKeyboard возвращает клавиатуру перехода по страницам галереи или статей
func pagedKeyboard(page content.Page, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if nav := navigationRow(page, prefix); len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "back_to_main"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// videoKeyboard возвращает клавиатуру навигации по видео курса
func videoKeyboard(cursor *content.VideoCursor, total int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var nav []tgbotapi.InlineKeyboardButton
	if cursor.HasPrev() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⏪ Предыдущее", "prev_video"))
	}
	if cursor.HasNext(total) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Следующее ⏩", "next_video"))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "back_to_main"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminPanelKeyboard возвращает клавиатуру панели администратора
func adminPanelKeyboard(inviteSystemEnabled bool) tgbotapi.InlineKeyboardMarkup {
	toggleText := "🔄 Включить систему приглашений"
	if inviteSystemEnabled {
		toggleText = "🔄 Отключить систему приглашений"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Новый курс", "admin_new_course"),
			tgbotapi.NewInlineKeyboardButtonData("➖ Удалить курс", "admin_delete_course"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Добавить достижение", "admin_new_achievement"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить достижение", "admin_delete_achievement"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Добавить статью", "admin_new_article"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить статью", "admin_delete_article"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Рассылка", "admin_broadcast"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Заблокировать", "admin_ban_user"),
			tgbotapi.NewInlineKeyboardButtonData("✅ Разблокировать", "admin_unban_user"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆓 Освободить", "admin_exempt_user"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleText, "admin_toggle_invite"),
		),
	)
}

// achievementTypeKeyboard возвращает клавиатуру выбора типа достижения
func achievementTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Текст", "achievement_type_text"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼 Фото", "achievement_type_photo"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎥 Видео", "achievement_type_video"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "admin_cancel"),
		),
	)
}

// donationKeyboard возвращает клавиатуру раздела поддержки
func donationKeyboard(target string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💰 Отправить звезды", fmt.Sprintf("https://t.me/%s", target[1:])),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "back_to_main"),
		),
	)
}
