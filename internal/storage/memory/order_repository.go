package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

const listPerPage = 10

// orderRepositoryInMemory повторяет транзакционную семантику постоянного
// хранилища: заказ либо записывается целиком, либо не записывается вовсе.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	orders []domain.Order

	menu *MenuRepository
	now  func() time.Time
}

// NewOrderRepository возвращает in-memory репозиторий заказов,
// разрешающий позиции через переданный каталог.
func NewOrderRepository(menu *MenuRepository, now func() time.Time) domain.OrderRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &orderRepositoryInMemory{nextID: 1, menu: menu, now: now}
}

func (r *orderRepositoryInMemory) Create(_ context.Context, dinerID int64, order domain.Order) (domain.Order, error) {
	// Сначала разрешаем все позиции: до первой ошибки ничего не пишем.
	items := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		menuID, ok := r.menu.resolveID(item.Description)
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: description %q in menu", domain.ErrNoIDFound, item.Description)
		}
		items = append(items, domain.OrderItem{
			MenuID:      menuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := domain.Order{
		ID:          r.nextID,
		FranchiseID: order.FranchiseID,
		StoreID:     order.StoreID,
		DinerID:     dinerID,
		Date:        r.now(),
		Items:       items,
	}
	r.nextID++
	r.orders = append(r.orders, created)

	return created, nil
}

func (r *orderRepositoryInMemory) ListByDiner(_ context.Context, dinerID int64, page int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mine := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.DinerID == dinerID {
			mine = append(mine, order)
		}
	}

	offset := pageOffset(page)
	if offset >= len(mine) {
		return []domain.Order{}, nil
	}
	end := offset + listPerPage
	if end > len(mine) {
		end = len(mine)
	}

	return append([]domain.Order(nil), mine[offset:end]...), nil
}

// pageOffset прижимает page < 1 к первой странице.
func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * listPerPage
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
