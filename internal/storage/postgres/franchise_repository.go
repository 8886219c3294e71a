package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type franchiseRepository struct {
	db *sql.DB
}

// NewFranchiseRepository создаёт PostgreSQL-реализацию FranchiseRepository.
func NewFranchiseRepository(store *Store) domain.FranchiseRepository {
	return &franchiseRepository{db: store.DB()}
}

// Create сохраняет франшизу и назначает администраторов, разрешая их
// по email той же lookup-механикой, что и позиции меню в заказе.
func (r *franchiseRepository) Create(ctx context.Context, franchise domain.Franchise) (domain.Franchise, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Franchise{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	admins := make([]domain.User, 0, len(franchise.Admins))
	for _, admin := range franchise.Admins {
		var adminID int64
		adminID, err = ResolveID(ctx, tx, "users", "email", admin.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNoIDFound) {
				err = fmt.Errorf("franchise admin %s: %w", admin.Email, domain.ErrUserNotFound)
			}
			return domain.Franchise{}, err
		}
		admins = append(admins, domain.User{ID: adminID, Email: admin.Email})
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO franchise (name) VALUES ($1) RETURNING id
	`, franchise.Name).Scan(&franchise.ID)
	if err != nil {
		return domain.Franchise{}, fmt.Errorf("insert franchise: %w", err)
	}

	for _, admin := range admins {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role, object_id)
			VALUES ($1, $2, $3)
		`, admin.ID, string(domain.RoleFranchisee), franchise.ID); err != nil {
			return domain.Franchise{}, fmt.Errorf("insert franchisee role: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Franchise{}, fmt.Errorf("commit create franchise: %w", err)
	}

	franchise.Admins = admins
	if franchise.Stores == nil {
		franchise.Stores = []domain.Store{}
	}
	return franchise, nil
}

// Delete удаляет франшизу вместе с магазинами и ролями franchisee.
func (r *franchiseRepository) Delete(ctx context.Context, franchiseID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM store WHERE franchise_id = $1
	`, franchiseID); err != nil {
		return fmt.Errorf("delete franchise stores: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM user_roles WHERE role = $1 AND object_id = $2
	`, string(domain.RoleFranchisee), franchiseID); err != nil {
		return fmt.Errorf("delete franchisee roles: %w", err)
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM franchise WHERE id = $1`, franchiseID)
	if err != nil {
		return fmt.Errorf("delete franchise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrFranchiseNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete franchise: %w", err)
	}

	return nil
}

func (r *franchiseRepository) List(ctx context.Context) ([]domain.Franchise, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM franchise ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list franchises: %w", err)
	}
	defer rows.Close()

	franchises, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}

	for i := range franchises {
		if err := r.hydrate(ctx, &franchises[i]); err != nil {
			return nil, err
		}
	}

	return franchises, nil
}

func (r *franchiseRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Franchise, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.name
		FROM franchise f
		JOIN user_roles ur ON ur.object_id = f.id AND ur.role = $1
		WHERE ur.user_id = $2
		ORDER BY f.id ASC
	`, string(domain.RoleFranchisee), userID)
	if err != nil {
		return nil, fmt.Errorf("list user franchises: %w", err)
	}
	defer rows.Close()

	franchises, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}

	for i := range franchises {
		if err := r.hydrate(ctx, &franchises[i]); err != nil {
			return nil, err
		}
	}

	return franchises, nil
}

func (r *franchiseRepository) CreateStore(ctx context.Context, franchiseID int64, store domain.Store) (domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO store (franchise_id, name) VALUES ($1, $2) RETURNING id
	`, franchiseID, store.Name).Scan(&store.ID)
	if err != nil {
		return domain.Store{}, fmt.Errorf("insert store: %w", err)
	}

	store.FranchiseID = franchiseID
	return store, nil
}

func (r *franchiseRepository) DeleteStore(ctx context.Context, franchiseID, storeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM store WHERE franchise_id = $1 AND id = $2
	`, franchiseID, storeID)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrStoreNotFound
	}

	return nil
}

// hydrate догружает администраторов и магазины франшизы с выручкой.
func (r *franchiseRepository) hydrate(ctx context.Context, franchise *domain.Franchise) error {
	adminRows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role = $1 AND ur.object_id = $2
		ORDER BY u.id ASC
	`, string(domain.RoleFranchisee), franchise.ID)
	if err != nil {
		return fmt.Errorf("load franchise admins: %w", err)
	}
	defer adminRows.Close()

	admins := make([]domain.User, 0)
	for adminRows.Next() {
		var admin domain.User
		if err := adminRows.Scan(&admin.ID, &admin.Name, &admin.Email); err != nil {
			return fmt.Errorf("scan franchise admin: %w", err)
		}
		admins = append(admins, admin)
	}
	if err := adminRows.Err(); err != nil {
		return fmt.Errorf("iterate franchise admins: %w", err)
	}
	franchise.Admins = admins

	storeRows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, COALESCE(SUM(oi.price), 0)
		FROM store s
		LEFT JOIN diner_order o ON o.store_id = s.id
		LEFT JOIN order_item oi ON oi.order_id = o.id
		WHERE s.franchise_id = $1
		GROUP BY s.id, s.name
		ORDER BY s.id ASC
	`, franchise.ID)
	if err != nil {
		return fmt.Errorf("load franchise stores: %w", err)
	}
	defer storeRows.Close()

	stores := make([]domain.Store, 0)
	for storeRows.Next() {
		var store domain.Store
		if err := storeRows.Scan(&store.ID, &store.Name, &store.TotalRevenue); err != nil {
			return fmt.Errorf("scan franchise store: %w", err)
		}
		store.FranchiseID = franchise.ID
		stores = append(stores, store)
	}
	if err := storeRows.Err(); err != nil {
		return fmt.Errorf("iterate franchise stores: %w", err)
	}
	franchise.Stores = stores

	return nil
}

func scanFranchises(rows *sql.Rows) ([]domain.Franchise, error) {
	franchises := make([]domain.Franchise, 0)
	for rows.Next() {
		var franchise domain.Franchise
		if err := rows.Scan(&franchise.ID, &franchise.Name); err != nil {
			return nil, fmt.Errorf("scan franchise row: %w", err)
		}
		franchises = append(franchises, franchise)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate franchise rows: %w", err)
	}
	return franchises, nil
}

var _ domain.FranchiseRepository = (*franchiseRepository)(nil)
