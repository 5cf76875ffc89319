package store

import (
	"context"
	"fmt"

	"courses-bot/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// achievementRepository реализует AchievementRepository
type achievementRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewAchievementRepository создает новый репозиторий достижений
func NewAchievementRepository(db *pgxpool.Pool, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{
		db:     db,
		logger: logger,
	}
}

// Create добавляет запись в галерею достижений
func (r *achievementRepository) Create(ctx context.Context, kind models.AchievementKind, payload, caption string) (int64, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("некорректный тип достижения: %s", kind)
	}

	query := `INSERT INTO achievements (kind, payload, caption) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, kind, payload, caption).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка создания достижения: %w", err)
	}

	r.logger.Info("достижение добавлено",
		zap.Int64("achievement_id", id),
		zap.String("kind", string(kind)))

	return id, nil
}

// GetAll получает все достижения, новые первыми
func (r *achievementRepository) GetAll(ctx context.Context) ([]*models.Achievement, error) {
	query := `SELECT id, kind, payload, caption, created_at FROM achievements ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения достижений: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		ach := &models.Achievement{}
		if err := rows.Scan(&ach.ID, &ach.Kind, &ach.Payload, &ach.Caption, &ach.CreatedAt); err != nil {
			r.logger.Error("ошибка сканирования достижения", zap.Error(err))
			continue
		}
		achievements = append(achievements, ach)
	}

	return achievements, nil
}

// Delete удаляет достижение
func (r *achievementRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления достижения: %w", err)
	}

	r.logger.Info("достижение удалено", zap.Int64("achievement_id", id))
	return nil
}

// articleRepository реализует ArticleRepository
type articleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewArticleRepository создает новый репозиторий статей
func NewArticleRepository(db *pgxpool.Pool, logger *zap.Logger) ArticleRepository {
	return &articleRepository{
		db:     db,
		logger: logger,
	}
}

// Create добавляет новую статью
func (r *articleRepository) Create(ctx context.Context, title, content string) (int64, error) {
	query := `INSERT INTO articles (title, content) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, title, content).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка создания статьи: %w", err)
	}

	r.logger.Info("статья добавлена",
		zap.Int64("article_id", id),
		zap.String("title", title))

	return id, nil
}

// GetAll получает все статьи, новые первыми
func (r *articleRepository) GetAll(ctx context.Context) ([]*models.Article, error) {
	query := `SELECT id, title, content, created_at FROM articles ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статей: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		art := &models.Article{}
		if err := rows.Scan(&art.ID, &art.Title, &art.Content, &art.CreatedAt); err != nil {
			r.logger.Error("ошибка сканирования статьи", zap.Error(err))
			continue
		}
		articles = append(articles, art)
	}

	return articles, nil
}

// Delete удаляет статью
func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления статьи: %w", err)
	}

	r.logger.Info("статья удалена", zap.Int64("article_id", id))
	return nil
}
