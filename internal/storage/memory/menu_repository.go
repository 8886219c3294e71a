package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// MenuRepository — in-memory каталог меню. Тип экспортируется, потому что
// in-memory репозиторий заказов разрешает menu_id напрямую через него.
type MenuRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []domain.MenuItem
}

// NewMenuRepository возвращает пустой in-memory каталог.
func NewMenuRepository() *MenuRepository {
	return &MenuRepository{nextID: 1}
}

func (r *MenuRepository) List(_ context.Context) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.MenuItem(nil), r.items...), nil
}

func (r *MenuRepository) Add(_ context.Context, item domain.MenuItem) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items = append(r.items, item)

	return append([]domain.MenuItem(nil), r.items...), nil
}

// resolveID повторяет семантику ResolveID для каталога: id по description.
func (r *MenuRepository) resolveID(description string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Description == description {
			return item.ID, true
		}
	}
	return 0, false
}

var _ domain.MenuRepository = (*MenuRepository)(nil)
