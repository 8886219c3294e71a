package domain

import "errors"

var (
	// Ошибка токена, из которого нельзя извлечь подпись.
	ErrMalformedToken = errors.New("malformed token")
	// ErrNoIDFound возвращается, когда lookup по natural key не дал ни одной строки.
	ErrNoIDFound = errors.New("no ID found")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrOrderItemsRequired = errors.New("order must contain at least one item")
	// Ошибка, если цена позиции не положительная.
	ErrItemPriceInvalid = errors.New("item price must be greater than zero")
	// Ошибка отсутствующего описания позиции.
	ErrItemDescriptionRequired = errors.New("item description is required")
	// Ошибка отсутствующего идентификатора франшизы или магазина.
	ErrOrderTargetRequired = errors.New("franchise and store are required")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists сигнализирует о попытке регистрации с занятым email.
	ErrUserExists = errors.New("user already exists")
	// ErrFranchiseNotFound возвращается, если франшиза не найдена.
	ErrFranchiseNotFound = errors.New("franchise not found")
	// ErrStoreNotFound возвращается, если магазин не найден.
	ErrStoreNotFound = errors.New("store not found")
	// Ошибка отсутствующего имени пользователя/франшизы/магазина.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка отсутствующего пароля.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCredentials — неверная пара email/пароль при логине.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized — запрос без действующей сессии.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — запрос аутентифицированного пользователя без нужной роли.
	ErrForbidden = errors.New("unable to perform this action")
)

// IsNotFound проверяет, относится ли ошибка к классу "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoIDFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrFranchiseNotFound) ||
		errors.Is(err, ErrStoreNotFound)
}

// IsValidation проверяет, относится ли ошибка к классу некорректного запроса.
func IsValidation(err error) bool {
	return errors.Is(err, ErrOrderItemsRequired) ||
		errors.Is(err, ErrItemPriceInvalid) ||
		errors.Is(err, ErrItemDescriptionRequired) ||
		errors.Is(err, ErrOrderTargetRequired) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrPasswordRequired)
}
