package bot

import "fmt"

// Messages содержит тексты ответов бота
type Messages struct{}

// NewMessages создает новый набор текстов
func NewMessages() *Messages {
	return &Messages{}
}

// Welcome приветствие после успешной проверки доступа
func (m *Messages) Welcome(firstName string) string {
	if firstName == "" {
		return "Добро пожаловать!"
	}
	return fmt.Sprintf("Добро пожаловать, %s!", firstName)
}

// WelcomeBack возврат в главное меню
func (m *Messages) WelcomeBack() string {
	return "С возвращением!"
}

// Banned сообщение заблокированному пользователю
func (m *Messages) Banned() string {
	return "⛔ Вы заблокированы и не можете пользоваться ботом."
}

// SubscribeRequired требование подписаться на канал
func (m *Messages) SubscribeRequired(channel string) string {
	return fmt.Sprintf("❗ Для использования бота сначала подпишитесь на канал %s.\n\nПосле подписки нажмите кнопку «Проверить подписку».", channel)
}

// SubscriptionVerified подтверждение подписки
func (m *Messages) SubscriptionVerified() string {
	return "✅ Подписка подтверждена!"
}

// InvitesRequired требование пригласить больше людей
func (m *Messages) InvitesRequired(invites, required int, link string) string {
	return fmt.Sprintf("📢 Чтобы открыть доступ к курсам, пригласите %d человек подписаться на канал.\n"+
		"Вы уже пригласили: %d.\n\n"+
		"Ваша персональная ссылка:\n%s\n\n"+
		"Поделитесь ей с друзьями — как только приглашенный подпишется, приглашение будет засчитано.",
		required, invites, link)
}

// ReferralCredited уведомление оператору о засчитанном приглашении
func (m *Messages) ReferralCredited(referrerID, referredID int64, total int) string {
	return fmt.Sprintf("✅ Новый приглашенный подписался!\nПригласил: %d\nПриглашенный: %d\nВсего приглашений: %d",
		referrerID, referredID, total)
}

// Congratulation поздравление пригласившему
func (m *Messages) Congratulation(required int) string {
	return fmt.Sprintf("🎉 Поздравляем! Вы пригласили %d человек и получили свободный доступ к боту.", required)
}

// NoCourses список курсов пуст
func (m *Messages) NoCourses() string {
	return "Курсов пока нет."
}

// ChooseCourse заголовок списка курсов
func (m *Messages) ChooseCourse() string {
	return "Выберите курс:"
}

// CourseEmpty в курсе нет видео
func (m *Messages) CourseEmpty() string {
	return "В этом курсе пока нет видео."
}

// VideoCaption подпись к видео курса
func (m *Messages) VideoCaption(position, total int) string {
	return fmt.Sprintf("Часть %d из %d", position, total)
}

// NoAchievements галерея пуста
func (m *Messages) NoAchievements() string {
	return "Достижений пока нет."
}

// NoArticles статей нет
func (m *Messages) NoArticles() string {
	return "Статей пока нет."
}

// BrowseMore подсказка под списком с переходами по страницам
func (m *Messages) BrowseMore() string {
	return "Смотреть дальше:"
}

// About описание бота
func (m *Messages) About() string {
	return "ℹ️ <b>Об учебном боте</b>\n\n" +
		"Бот создан для поддержки всех, кто хочет учиться: здесь собраны бесплатные курсы, истории успеха и статьи.\n" +
		"По вопросам: @YourSupport"
}

// Donation просьба о поддержке
func (m *Messages) Donation(target string) string {
	return "💖 <b>Поддержите проект</b>\n\n" +
		"Команда делает бесплатные учебные материалы и развивает бота в свободное время. " +
		"Любая поддержка звездами Telegram помогает нам продолжать.\n\n" +
		fmt.Sprintf("Отправить звезды можно на аккаунт: %s\n\n", target) +
		"Спасибо за вашу помощь! ❤️"
}

// AdminsOnly команда доступна только администраторам
func (m *Messages) AdminsOnly() string {
	return "⛔ Эта команда доступна только администраторам."
}

// InternalError общий ответ на внутреннюю ошибку
func (m *Messages) InternalError() string {
	return "Извините, произошла внутренняя ошибка. Попробуйте позже."
}

// DeliveryError ошибка отправки контента
func (m *Messages) DeliveryError() string {
	return "Произошла ошибка при отправке. Попробуйте еще раз."
}

// UnknownCommand неизвестная команда
func (m *Messages) UnknownCommand() string {
	return "Неизвестная команда. Используйте меню."
}
