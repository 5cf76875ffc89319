package bot

import (
	"sync"
	"time"

	"courses-bot/internal/content"

	"courses-bot/pkg/models"
)

// AdminState состояние многошагового админского диалога
type AdminState string

const (
	// StateIdle диалог не ведется
	StateIdle AdminState = "idle"
	// StateAwaitingCourseName ожидается название нового курса
	StateAwaitingCourseName AdminState = "awaiting_course_name"
	// StateReceivingVideos принимаются видео нового курса до /done
	StateReceivingVideos AdminState = "receiving_videos"
	// StateAwaitingAchievementContent ожидается содержимое достижения
	StateAwaitingAchievementContent AdminState = "awaiting_achievement_content"
	// StateAwaitingAchievementCaption ожидается подпись достижения
	StateAwaitingAchievementCaption AdminState = "awaiting_achievement_caption"
	// StateAwaitingArticleTitle ожидается заголовок статьи
	StateAwaitingArticleTitle AdminState = "awaiting_article_title"
	// StateAwaitingArticleContent ожидается текст статьи
	StateAwaitingArticleContent AdminState = "awaiting_article_content"
	// StateAwaitingBroadcastText ожидается текст рассылки
	StateAwaitingBroadcastText AdminState = "awaiting_broadcast_text"
	// StateAwaitingBanID ожидается идентификатор для блокировки
	StateAwaitingBanID AdminState = "awaiting_ban_id"
	// StateAwaitingUnbanID ожидается идентификатор для разблокировки
	StateAwaitingUnbanID AdminState = "awaiting_unban_id"
	// StateAwaitingExemptID ожидается идентификатор для освобождения
	StateAwaitingExemptID AdminState = "awaiting_exempt_id"
)

// CourseDraft накапливает данные добавляемого курса
type CourseDraft struct {
	Name   string
	Videos []DraftVideo
}

// DraftVideo видео, принятое в диалоге добавления курса
type DraftVideo struct {
	FileID           string
	ChannelMessageID int
}

// AchievementDraft накапливает данные добавляемого достижения
type AchievementDraft struct {
	Kind    models.AchievementKind
	Payload string
}

// ArticleDraft накапливает данные добавляемой статьи
type ArticleDraft struct {
	Title string
}

// Session хранит эфемерное состояние одного диалога: курсор просмотра видео
// и прогресс админских мастеров. Не переживает перезапуск процесса.
type Session struct {
	Cursor           *content.VideoCursor
	AdminState       AdminState
	CourseDraft      *CourseDraft
	AchievementDraft *AchievementDraft
	ArticleDraft     *ArticleDraft
	LastActivity     time.Time
}

// ResetAdmin очищает состояние админских мастеров
func (s *Session) ResetAdmin() {
	s.AdminState = StateIdle
	s.CourseDraft = nil
	s.AchievementDraft = nil
	s.ArticleDraft = nil
}

// SessionStore потокобезопасное хранилище сессий по идентификатору пользователя
type SessionStore struct {
	sessions map[int64]*Session
	mutex    sync.Mutex
}

// NewSessionStore создает новое хранилище сессий
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
	}
}

// Get возвращает сессию пользователя, создавая ее при первом обращении
func (ss *SessionStore) Get(telegramID int64) *Session {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	session, ok := ss.sessions[telegramID]
	if !ok {
		session = &Session{AdminState: StateIdle}
		ss.sessions[telegramID] = session
	}
	session.LastActivity = time.Now()

	return session
}

// Clear удаляет сессию пользователя
func (ss *SessionStore) Clear(telegramID int64) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	delete(ss.sessions, telegramID)
}
