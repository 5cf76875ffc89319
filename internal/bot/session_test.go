package bot

import (
	"testing"

	"courses-bot/internal/content"
	"courses-bot/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestSessionStoreGet(t *testing.T) {
	store := NewSessionStore()

	session := store.Get(100)
	assert.Equal(t, StateIdle, session.AdminState)
	assert.Nil(t, session.Cursor)

	// Повторное обращение возвращает ту же сессию
	session.Cursor = content.OpenCursor(42)
	again := store.Get(100)
	assert.Same(t, session, again)

	// У другого пользователя своя сессия
	other := store.Get(200)
	assert.NotSame(t, session, other)
	assert.Nil(t, other.Cursor)
}

func TestSessionStoreClear(t *testing.T) {
	store := NewSessionStore()

	session := store.Get(100)
	session.AdminState = StateReceivingVideos

	store.Clear(100)

	fresh := store.Get(100)
	assert.Equal(t, StateIdle, fresh.AdminState)
}

func TestSessionResetAdmin(t *testing.T) {
	session := &Session{
		Cursor:           content.OpenCursor(42),
		AdminState:       StateAwaitingAchievementCaption,
		CourseDraft:      &CourseDraft{Name: "Тестовый курс"},
		AchievementDraft: &AchievementDraft{Kind: models.AchievementText, Payload: "текст"},
		ArticleDraft:     &ArticleDraft{Title: "Заголовок"},
	}

	session.ResetAdmin()

	assert.Equal(t, StateIdle, session.AdminState)
	assert.Nil(t, session.CourseDraft)
	assert.Nil(t, session.AchievementDraft)
	assert.Nil(t, session.ArticleDraft)
	// Курсор просмотра админский сброс не трогает
	assert.NotNil(t, session.Cursor)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < MaxRequestsPerMinute; i++ {
		assert.True(t, limiter.IsAllowed(100))
	}

	// Лимит исчерпан
	assert.False(t, limiter.IsAllowed(100))

	// Другой пользователь не затронут
	assert.True(t, limiter.IsAllowed(200))
}
