package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository создаёт PostgreSQL-реализацию MenuRepository.
func NewMenuRepository(store *Store) domain.MenuRepository {
	return &menuRepository{db: store.DB()}
}

func (r *menuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.list(ctx)
}

func (r *menuRepository) Add(ctx context.Context, item domain.MenuItem) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO menu (title, description, image, price)
		VALUES ($1, $2, $3, $4)
	`, item.Title, item.Description, item.Image, item.Price); err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}

	return r.list(ctx)
}

func (r *menuRepository) list(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, image, price
		FROM menu
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}

	return items, nil
}

var _ domain.MenuRepository = (*menuRepository)(nil)
