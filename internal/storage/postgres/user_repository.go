package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Name, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role, object_id)
			VALUES ($1, $2, $3)
		`, user.ID, string(role.Role), role.ObjectID); err != nil {
			return domain.User{}, fmt.Errorf("insert user role: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("commit create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.get(ctx, `SELECT id, name, email, password_hash FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.get(ctx, `SELECT id, name, email, password_hash FROM users WHERE id = $1`, id)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}

	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	user.Roles = roles

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, name, email, passwordHash string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Пустые поля не трогаем: запрос собирается только из изменяемых колонок.
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if name != "" {
		args = append(args, name)
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)))
	}
	if email != "" {
		args = append(args, email)
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)))
	}
	if passwordHash != "" {
		args = append(args, passwordHash)
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", len(args)))
	}

	if len(setParts) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(setParts, ", "), len(args))
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.User{}, domain.ErrUserExists
			}
			return domain.User{}, fmt.Errorf("update user: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return domain.User{}, fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return domain.User{}, domain.ErrUserNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *userRepository) List(ctx context.Context, page int) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, listPerPage, PageOffset(page, listPerPage))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	for i := range users {
		roles, err := r.loadRoles(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}

	return users, nil
}

func (r *userRepository) loadRoles(ctx context.Context, userID int64) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role, object_id
		FROM user_roles
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		var (
			role     string
			objectID int64
		)
		if err := rows.Scan(&role, &objectID); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, domain.Role{Role: domain.RoleName(role), ObjectID: objectID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}

	return roles, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.UserRepository = (*userRepository)(nil)
