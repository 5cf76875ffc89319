package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// settingRepository реализует SettingRepository
type settingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSettingRepository создает новый репозиторий настроек
func NewSettingRepository(db *pgxpool.Pool, logger *zap.Logger) SettingRepository {
	return &settingRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает значение настройки или значение по умолчанию, если ключа нет
func (r *settingRepository) Get(ctx context.Context, key, def string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return def, nil
		}
		return def, fmt.Errorf("ошибка чтения настройки %s: %w", key, err)
	}

	return value, nil
}

// Set записывает значение настройки
func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("ошибка записи настройки %s: %w", key, err)
	}

	r.logger.Info("настройка обновлена",
		zap.String("key", key),
		zap.String("value", value))
	return nil
}
