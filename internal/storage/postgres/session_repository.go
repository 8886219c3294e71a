package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository создаёт PostgreSQL-реализацию SessionRepository.
func NewSessionRepository(store *Store) domain.SessionRepository {
	return &sessionRepository{db: store.DB()}
}

func (r *sessionRepository) Issue(ctx context.Context, userID int64, token string) error {
	signature := domain.TokenSignature(token)
	if signature == "" {
		return fmt.Errorf("issue session: %w", domain.ErrMalformedToken)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO auth (token_signature, user_id) VALUES ($1, $2)
	`, signature, userID); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r *sessionRepository) Validate(ctx context.Context, token string) (bool, error) {
	signature := domain.TokenSignature(token)
	if signature == "" {
		// Пустая подпись не должна уходить в запрос: match по пустой
		// строке дал бы неоднозначный результат.
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var userID int64
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id FROM auth WHERE token_signature = $1 LIMIT 1
	`, signature).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select session: %w", err)
	}

	return true, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string) error {
	signature := domain.TokenSignature(token)
	if signature == "" {
		return fmt.Errorf("revoke session: %w", domain.ErrMalformedToken)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Идемпотентно: ноль удалённых строк — не ошибка.
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM auth WHERE token_signature = $1
	`, signature); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

var _ domain.SessionRepository = (*sessionRepository)(nil)
