package models

import (
	"time"
)

// User представляет пользователя бота
type User struct {
	ID             int64     `json:"id" db:"id"`
	TelegramID     int64     `json:"telegram_id" db:"telegram_id"`
	Username       string    `json:"username" db:"username"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	IsSubscribed   bool      `json:"is_subscribed" db:"is_subscribed"`     // подписан ли на обязательный канал
	InvitesCount   int       `json:"invites_count" db:"invites_count"`     // сколько приглашенных подписалось
	Exempt         bool      `json:"exempt" db:"exempt_from_invites"`      // освобожден от системы приглашений
	Blocked        bool      `json:"blocked" db:"blocked"`                 // заблокирован администратором
	ReferrerID     *int64    `json:"referrer_id" db:"referrer_id"`         // telegram_id пригласившего
	InviteRewarded bool      `json:"invite_rewarded" db:"invite_rewarded"` // засчитана ли его подписка пригласившему
	JoinedAt       time.Time `json:"joined_at" db:"joined_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Course представляет курс с упорядоченным списком видео
type Course struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Video представляет одно видео курса
type Video struct {
	ID               int64  `json:"id" db:"id"`
	CourseID         int64  `json:"course_id" db:"course_id"`
	FileID           string `json:"file_id" db:"file_id"` // telegram file_id
	ChannelMessageID int    `json:"channel_message_id" db:"channel_message_id"` // копия в архивном канале
	Position         int    `json:"position" db:"position"` // порядок воспроизведения, с 1
}

// AchievementKind тип содержимого достижения
type AchievementKind string

const (
	AchievementText  AchievementKind = "text"
	AchievementPhoto AchievementKind = "photo"
	AchievementVideo AchievementKind = "video"
)

// IsValid проверяет валидность типа достижения
func (k AchievementKind) IsValid() bool {
	switch k {
	case AchievementText, AchievementPhoto, AchievementVideo:
		return true
	default:
		return false
	}
}

// Achievement представляет запись в галерее достижений
type Achievement struct {
	ID        int64           `json:"id" db:"id"`
	Kind      AchievementKind `json:"kind" db:"kind"`
	Payload   string          `json:"payload" db:"payload"` // текст или telegram file_id
	Caption   string          `json:"caption" db:"caption"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Article представляет статью
type Article struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SettingInviteSystemEnabled ключ настройки, включающей систему приглашений
const SettingInviteSystemEnabled = "invite_system_enabled"

// CreateUserRequest представляет запрос на создание пользователя
type CreateUserRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// BroadcastResult представляет итог массовой рассылки
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
