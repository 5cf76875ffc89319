package store

import (
	"context"
	"errors"
	"fmt"

	"courses-bot/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrCourseNotFound возвращается, когда курс отсутствует в базе
var ErrCourseNotFound = errors.New("курс не найден")

// courseRepository реализует CourseRepository
type courseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCourseRepository создает новый репозиторий курсов
func NewCourseRepository(db *pgxpool.Pool, logger *zap.Logger) CourseRepository {
	return &courseRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новый курс
func (r *courseRepository) Create(ctx context.Context, name string) (int64, error) {
	query := `INSERT INTO courses (name) VALUES ($1) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка создания курса: %w", err)
	}

	r.logger.Info("курс создан",
		zap.Int64("course_id", id),
		zap.String("name", name))

	return id, nil
}

// GetByID получает курс по ID
func (r *courseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, name, created_at FROM courses WHERE id = $1`

	course := &models.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Name, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("ошибка получения курса: %w", err)
	}

	return course, nil
}

// GetAll получает все курсы, новые первыми
func (r *courseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT id, name, created_at FROM courses ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения курсов: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Name, &course.CreatedAt); err != nil {
			r.logger.Error("ошибка сканирования курса", zap.Error(err))
			continue
		}
		courses = append(courses, course)
	}

	return courses, nil
}

// Delete удаляет курс вместе с его видео (каскад по внешнему ключу)
func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления курса: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	r.logger.Info("курс удален", zap.Int64("course_id", id))
	return nil
}

// AddVideo добавляет видео в конец курса. Позиция назначается при вставке и
// строго возрастает внутри курса.
func (r *courseRepository) AddVideo(ctx context.Context, courseID int64, fileID string, channelMessageID int) error {
	query := `
		INSERT INTO videos (course_id, file_id, channel_message_id, position)
		VALUES ($1, $2, $3,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM videos WHERE course_id = $1))`

	if _, err := r.db.Exec(ctx, query, courseID, fileID, channelMessageID); err != nil {
		return fmt.Errorf("ошибка добавления видео: %w", err)
	}

	return nil
}

// GetVideos получает видео курса в порядке воспроизведения
func (r *courseRepository) GetVideos(ctx context.Context, courseID int64) ([]*models.Video, error) {
	query := `
		SELECT id, course_id, file_id, channel_message_id, position
		FROM videos
		WHERE course_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения видео курса: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		if err := rows.Scan(&video.ID, &video.CourseID, &video.FileID, &video.ChannelMessageID, &video.Position); err != nil {
			r.logger.Error("ошибка сканирования видео", zap.Error(err))
			continue
		}
		videos = append(videos, video)
	}

	return videos, nil
}
