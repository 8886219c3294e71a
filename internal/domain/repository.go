package domain

import "context"

// SessionRepository — allow-list активных сессий, ключом служит подпись JWT.
type SessionRepository interface {
	// Issue сохраняет подпись токена для пользователя. Возвращает
	// ErrMalformedToken, если подпись извлечь нельзя. Дедупликации нет:
	// у пользователя может быть несколько активных сессий.
	Issue(ctx context.Context, userID int64, token string) error
	// Validate возвращает true, если подпись токена есть в allow-list.
	// Для токена без подписи запрос к хранилищу не выполняется.
	Validate(ctx context.Context, token string) (bool, error)
	// Revoke удаляет все строки с подписью токена. Отсутствие строк — не ошибка.
	Revoke(ctx context.Context, token string) error
}

// UserRepository описывает хранилище учётных записей.
type UserRepository interface {
	// Create сохраняет пользователя с ролями и возвращает его с присвоенным ID.
	Create(ctx context.Context, user User) (User, error)
	// GetByEmail возвращает пользователя с ролями или ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByID возвращает пользователя с ролями или ErrUserNotFound.
	GetByID(ctx context.Context, id int64) (User, error)
	// Update изменяет непустые поля; пустая строка означает "не менять".
	// PasswordHash передаётся уже захешированным.
	Update(ctx context.Context, id int64, name, email, passwordHash string) (User, error)
	// List возвращает страницу пользователей (page >= 1).
	List(ctx context.Context, page int) ([]User, error)
}

// MenuRepository описывает каталог меню.
type MenuRepository interface {
	// List возвращает все позиции меню.
	List(ctx context.Context) ([]MenuItem, error)
	// Add добавляет позицию и возвращает обновлённое меню целиком.
	Add(ctx context.Context, item MenuItem) ([]MenuItem, error)
}

// OrderRepository описывает хранилище заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ и его позиции, разрешая menu_id
	// каждой позиции по description внутри той же транзакции.
	// Частично записанный заказ недопустим: любой сбой откатывает всё.
	Create(ctx context.Context, dinerID int64, order Order) (Order, error)
	// ListByDiner возвращает страницу заказов посетителя вместе с позициями.
	// page < 1 трактуется как первая страница (offset 0).
	ListByDiner(ctx context.Context, dinerID int64, page int) ([]Order, error)
}

// FranchiseRepository описывает CRUD франшиз и магазинов.
type FranchiseRepository interface {
	// Create сохраняет франшизу, разрешая администраторов по email.
	Create(ctx context.Context, franchise Franchise) (Franchise, error)
	// Delete удаляет франшизу вместе с магазинами и ролями franchisee.
	Delete(ctx context.Context, franchiseID int64) error
	// List возвращает все франшизы с магазинами и выручкой.
	List(ctx context.Context) ([]Franchise, error)
	// ListForUser возвращает франшизы, которыми управляет пользователь.
	ListForUser(ctx context.Context, userID int64) ([]Franchise, error)
	// CreateStore добавляет магазин во франшизу.
	CreateStore(ctx context.Context, franchiseID int64, store Store) (Store, error)
	// DeleteStore удаляет магазин франшизы; отсутствие строки — ErrStoreNotFound.
	DeleteStore(ctx context.Context, franchiseID, storeID int64) error
}
