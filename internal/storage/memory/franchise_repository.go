package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// franchiseRepositoryInMemory — in-memory CRUD франшиз и магазинов.
type franchiseRepositoryInMemory struct {
	mu          sync.RWMutex
	nextID      int64
	nextStoreID int64
	franchises  map[int64]domain.Franchise

	users *UserRepository
}

// NewFranchiseRepository возвращает in-memory репозиторий франшиз,
// разрешающий администраторов через переданное хранилище пользователей.
func NewFranchiseRepository(users *UserRepository) domain.FranchiseRepository {
	return &franchiseRepositoryInMemory{
		nextID:      1,
		nextStoreID: 1,
		franchises:  make(map[int64]domain.Franchise),
		users:       users,
	}
}

func (r *franchiseRepositoryInMemory) Create(ctx context.Context, franchise domain.Franchise) (domain.Franchise, error) {
	admins := make([]domain.User, 0, len(franchise.Admins))
	for _, admin := range franchise.Admins {
		user, err := r.users.GetByEmail(ctx, admin.Email)
		if err != nil {
			return domain.Franchise{}, fmt.Errorf("franchise admin %s: %w", admin.Email, domain.ErrUserNotFound)
		}
		admins = append(admins, domain.User{ID: user.ID, Name: user.Name, Email: user.Email})
	}

	r.mu.Lock()
	franchise.ID = r.nextID
	r.nextID++
	franchise.Admins = admins
	if franchise.Stores == nil {
		franchise.Stores = []domain.Store{}
	}
	r.franchises[franchise.ID] = franchise
	r.mu.Unlock()

	for _, admin := range admins {
		r.users.addRole(admin.ID, domain.Role{Role: domain.RoleFranchisee, ObjectID: franchise.ID})
	}

	return franchise, nil
}

func (r *franchiseRepositoryInMemory) Delete(_ context.Context, franchiseID int64) error {
	r.mu.Lock()
	_, ok := r.franchises[franchiseID]
	if ok {
		delete(r.franchises, franchiseID)
	}
	r.mu.Unlock()

	if !ok {
		return domain.ErrFranchiseNotFound
	}

	r.users.removeRole(domain.RoleFranchisee, franchiseID)
	return nil
}

func (r *franchiseRepositoryInMemory) List(_ context.Context) ([]domain.Franchise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Franchise, 0, len(r.franchises))
	for id := int64(1); id < r.nextID; id++ {
		if franchise, ok := r.franchises[id]; ok {
			result = append(result, franchise)
		}
	}
	return result, nil
}

func (r *franchiseRepositoryInMemory) ListForUser(_ context.Context, userID int64) ([]domain.Franchise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Franchise, 0)
	for id := int64(1); id < r.nextID; id++ {
		franchise, ok := r.franchises[id]
		if !ok {
			continue
		}
		for _, admin := range franchise.Admins {
			if admin.ID == userID {
				result = append(result, franchise)
				break
			}
		}
	}
	return result, nil
}

func (r *franchiseRepositoryInMemory) CreateStore(_ context.Context, franchiseID int64, store domain.Store) (domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	franchise, ok := r.franchises[franchiseID]
	if !ok {
		return domain.Store{}, domain.ErrFranchiseNotFound
	}

	store.ID = r.nextStoreID
	r.nextStoreID++
	store.FranchiseID = franchiseID
	franchise.Stores = append(franchise.Stores, store)
	r.franchises[franchiseID] = franchise

	return store, nil
}

func (r *franchiseRepositoryInMemory) DeleteStore(_ context.Context, franchiseID, storeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	franchise, ok := r.franchises[franchiseID]
	if !ok {
		return domain.ErrFranchiseNotFound
	}

	for i, store := range franchise.Stores {
		if store.ID == storeID {
			franchise.Stores = append(franchise.Stores[:i], franchise.Stores[i+1:]...)
			r.franchises[franchiseID] = franchise
			return nil
		}
	}
	return domain.ErrStoreNotFound
}

var _ domain.FranchiseRepository = (*franchiseRepositoryInMemory)(nil)
