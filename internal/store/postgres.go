package store

import (
	"context"
	"fmt"
	"time"

	"courses-bot/internal/config"
	"courses-bot/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store представляет интерфейс для работы с базой данных
type Store interface {
	User() UserRepository
	Course() CourseRepository
	Achievement() AchievementRepository
	Article() ArticleRepository
	Setting() SettingRepository
	DB() *pgxpool.Pool
	Close() error
}

// store реализует интерфейс Store
type store struct {
	db          *pgxpool.Pool
	logger      *zap.Logger
	user        UserRepository
	course      CourseRepository
	achievement AchievementRepository
	article     ArticleRepository
	setting     SettingRepository
}

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Upsert(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	SetBlocked(ctx context.Context, telegramID int64, blocked bool) error
	SetExempt(ctx context.Context, telegramID int64, exempt bool) error
	SetReferrer(ctx context.Context, telegramID, referrerID int64) error
	MarkSubscribed(ctx context.Context, telegramID int64) error
	CreditReferral(ctx context.Context, referredID, referrerID int64) (bool, error)
	GetAllTelegramIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// CourseRepository интерфейс для работы с курсами и их видео
type CourseRepository interface {
	Create(ctx context.Context, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, id int64) error
	AddVideo(ctx context.Context, courseID int64, fileID string, channelMessageID int) error
	GetVideos(ctx context.Context, courseID int64) ([]*models.Video, error)
}

// AchievementRepository интерфейс для работы с галереей достижений
type AchievementRepository interface {
	Create(ctx context.Context, kind models.AchievementKind, payload, caption string) (int64, error)
	GetAll(ctx context.Context) ([]*models.Achievement, error)
	Delete(ctx context.Context, id int64) error
}

// ArticleRepository интерфейс для работы со статьями
type ArticleRepository interface {
	Create(ctx context.Context, title, content string) (int64, error)
	GetAll(ctx context.Context) ([]*models.Article, error)
	Delete(ctx context.Context, id int64) error
}

// SettingRepository интерфейс для работы с настройками
type SettingRepository interface {
	Get(ctx context.Context, key, def string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Настройка пула
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Создание пула
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	s := &store{
		db:     db,
		logger: logger,
	}

	// Инициализация репозиториев
	s.user = NewUserRepository(db, logger)
	s.course = NewCourseRepository(db, logger)
	s.achievement = NewAchievementRepository(db, logger)
	s.article = NewArticleRepository(db, logger)
	s.setting = NewSettingRepository(db, logger)

	return s, nil
}

// User возвращает репозиторий пользователей
func (s *store) User() UserRepository {
	return s.user
}

// Course возвращает репозиторий курсов
func (s *store) Course() CourseRepository {
	return s.course
}

// Achievement возвращает репозиторий достижений
func (s *store) Achievement() AchievementRepository {
	return s.achievement
}

// Article возвращает репозиторий статей
func (s *store) Article() ArticleRepository {
	return s.article
}

// Setting возвращает репозиторий настроек
func (s *store) Setting() SettingRepository {
	return s.setting
}

// DB возвращает подключение к базе данных
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает подключение к базе данных
func (s *store) Close() error {
	s.logger.Info("закрытие подключения к базе данных")
	s.db.Close()
	return nil
}
