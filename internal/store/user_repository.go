package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courses-bot/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе
var ErrUserNotFound = errors.New("пользователь не найден")

const userColumns = `id, telegram_id, username, first_name, last_name, is_subscribed,
       invites_count, exempt_from_invites, blocked, referrer_id, invite_rewarded,
       joined_at, created_at, updated_at`

// userRepository реализует UserRepository
type userRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
		&user.IsSubscribed, &user.InvitesCount, &user.Exempt, &user.Blocked,
		&user.ReferrerID, &user.InviteRewarded,
		&user.JoinedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Upsert создает пользователя при первом контакте или обновляет его профиль
func (r *userRepository) Upsert(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	now := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query,
		req.TelegramID, req.Username, req.FirstName, req.LastName, now))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя по Telegram ID: %w", err)
	}

	return user, nil
}

// SetBlocked устанавливает флаг блокировки пользователя
func (r *userRepository) SetBlocked(ctx context.Context, telegramID int64, blocked bool) error {
	query := `UPDATE users SET blocked = $2, updated_at = $3 WHERE telegram_id = $1`

	result, err := r.db.Exec(ctx, query, telegramID, blocked, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка обновления флага блокировки: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	r.logger.Info("флаг блокировки обновлен",
		zap.Int64("telegram_id", telegramID),
		zap.Bool("blocked", blocked))
	return nil
}

// SetExempt освобождает пользователя от системы приглашений
func (r *userRepository) SetExempt(ctx context.Context, telegramID int64, exempt bool) error {
	query := `UPDATE users SET exempt_from_invites = $2, updated_at = $3 WHERE telegram_id = $1`

	result, err := r.db.Exec(ctx, query, telegramID, exempt, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка обновления флага освобождения: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	r.logger.Info("флаг освобождения обновлен",
		zap.Int64("telegram_id", telegramID),
		zap.Bool("exempt", exempt))
	return nil
}

// SetReferrer записывает пригласившего. Срабатывает только первый раз:
// повторные вызовы и самоприглашение игнорируются.
func (r *userRepository) SetReferrer(ctx context.Context, telegramID, referrerID int64) error {
	if telegramID == referrerID {
		return nil
	}

	query := `
		UPDATE users SET referrer_id = $2, updated_at = $3
		WHERE telegram_id = $1 AND referrer_id IS NULL`

	result, err := r.db.Exec(ctx, query, telegramID, referrerID, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка записи пригласившего: %w", err)
	}

	if result.RowsAffected() > 0 {
		r.logger.Info("пригласивший записан",
			zap.Int64("telegram_id", telegramID),
			zap.Int64("referrer_id", referrerID))
	}

	return nil
}

// MarkSubscribed отмечает пользователя подписанным на канал
func (r *userRepository) MarkSubscribed(ctx context.Context, telegramID int64) error {
	query := `UPDATE users SET is_subscribed = TRUE, updated_at = $2 WHERE telegram_id = $1`

	result, err := r.db.Exec(ctx, query, telegramID, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка отметки подписки: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CreditReferral атомарно засчитывает приглашение: ставит invite_rewarded
// приглашенному и увеличивает счетчик пригласившего в одной транзакции.
// Флаг проверяется внутри UPDATE, поэтому два параллельных вызова для одного
// пользователя не засчитают приглашение дважды. Возвращает true, если
// приглашение было засчитано этим вызовом.
func (r *userRepository) CreditReferral(ctx context.Context, referredID, referrerID int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	markQuery := `
		UPDATE users SET invite_rewarded = TRUE, updated_at = $2
		WHERE telegram_id = $1 AND invite_rewarded = FALSE`

	result, err := tx.Exec(ctx, markQuery, referredID, now)
	if err != nil {
		return false, fmt.Errorf("ошибка отметки засчитанного приглашения: %w", err)
	}

	// Кто-то уже засчитал это приглашение
	if result.RowsAffected() == 0 {
		return false, nil
	}

	incrementQuery := `UPDATE users SET invites_count = invites_count + 1, updated_at = $2 WHERE telegram_id = $1`

	if _, err := tx.Exec(ctx, incrementQuery, referrerID, now); err != nil {
		return false, fmt.Errorf("ошибка увеличения счетчика приглашений: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	r.logger.Info("приглашение засчитано",
		zap.Int64("referred_id", referredID),
		zap.Int64("referrer_id", referrerID))

	return true, nil
}

// GetAllTelegramIDs получает идентификаторы всех пользователей для рассылки
func (r *userRepository) GetAllTelegramIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT telegram_id FROM users ORDER BY joined_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("ошибка сканирования идентификатора", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Count возвращает количество известных пользователей
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	return count, nil
}
