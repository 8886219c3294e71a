package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

const (
	// listPerPage — размер страницы при выборке заказов.
	listPerPage = 10

	txTimeout = 10 * time.Second
)

// PageOffset переводит номер страницы в offset выборки.
// page < 1 явно прижимается к первой странице: offset 0.
func PageOffset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

type orderRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
// Часы передаются явно, чтобы тесты могли зафиксировать дату заказа.
func NewOrderRepository(store *Store, now func() time.Time) domain.OrderRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &orderRepository{db: store.DB(), now: now}
}

// Create сохраняет заказ и его позиции одной транзакцией.
// menu_id каждой позиции разрешается по description внутри той же
// транзакции: при любом сбое — резолва, вставки родителя или позиций —
// вся транзакция откатывается, частичных заказов не остаётся.
func (r *orderRepository) Create(ctx context.Context, dinerID int64, order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	items := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		var menuID int64
		// Цене и menu_id из запроса не доверяем: идентификатор всегда
		// берётся из каталога по description.
		menuID, err = ResolveID(ctx, tx, "menu", "description", item.Description)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			MenuID:      menuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	created := domain.Order{
		FranchiseID: order.FranchiseID,
		StoreID:     order.StoreID,
		DinerID:     dinerID,
		Date:        r.now(),
		Items:       items,
	}

	// Родитель вставляется первым: позиции ссылаются на его id.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO diner_order (diner_id, franchise_id, store_id, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, dinerID, created.FranchiseID, created.StoreID, created.Date).Scan(&created.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range created.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_item (order_id, menu_id, description, price)
			VALUES ($1, $2, $3, $4)
		`, created.ID, item.MenuID, item.Description, item.Price); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit create order: %w", err)
	}

	return created, nil
}

func (r *orderRepository) ListByDiner(ctx context.Context, dinerID int64, page int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, franchise_id, store_id, date
		FROM diner_order
		WHERE diner_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`, dinerID, listPerPage, PageOffset(page, listPerPage))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.FranchiseID, &order.StoreID, &order.Date); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.DinerID = dinerID
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// loadItems возвращает позиции заказа в порядке вставки.
func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT menu_id, description, price
		FROM order_item
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
