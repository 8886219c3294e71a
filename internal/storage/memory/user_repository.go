package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// UserRepository — in-memory хранилище пользователей. Тип экспортируется,
// потому что in-memory репозиторий франшиз управляет ролями franchisee
// напрямую через него.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

// NewUserRepository возвращает in-memory хранилище пользователей.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		users:  make(map[int64]domain.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ErrUserExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user

	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) Update(_ context.Context, id int64, name, email, passwordHash string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		for otherID, other := range r.users {
			if otherID != id && other.Email == email {
				return domain.User{}, domain.ErrUserExists
			}
		}
		user.Email = email
	}
	if passwordHash != "" {
		user.PasswordHash = passwordHash
	}

	r.users[id] = user
	return user, nil
}

func (r *UserRepository) List(_ context.Context, page int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.User, 0, len(r.users))
	// Стабильный порядок по id, как ORDER BY id в постоянном хранилище.
	for id := int64(1); id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			all = append(all, user)
		}
	}

	offset := pageOffset(page)
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + listPerPage
	if end > len(all) {
		end = len(all)
	}

	return append([]domain.User(nil), all[offset:end]...), nil
}

// AddRole навешивает роль существующему пользователю (для franchisee).
func (r *UserRepository) addRole(userID int64, role domain.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return false
	}
	user.Roles = append(user.Roles, role)
	r.users[userID] = user
	return true
}

// removeRole снимает роль franchisee с объекта (при удалении франшизы).
func (r *UserRepository) removeRole(role domain.RoleName, objectID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, user := range r.users {
		kept := user.Roles[:0]
		for _, existing := range user.Roles {
			if existing.Role == role && existing.ObjectID == objectID {
				continue
			}
			kept = append(kept, existing)
		}
		user.Roles = kept
		r.users[id] = user
	}
}

var _ domain.UserRepository = (*UserRepository)(nil)
