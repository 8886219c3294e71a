package domain

// MenuItem — позиция каталога (меню). Для этого ядра каталог read-only:
// заказы ссылаются на него, но не изменяют.
type MenuItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// Validate проверяет поля новой позиции меню.
func (m MenuItem) Validate() []error {
	var errs []error
	if m.Title == "" {
		errs = append(errs, ErrNameRequired)
	}
	if m.Description == "" {
		errs = append(errs, ErrItemDescriptionRequired)
	}
	if m.Price <= 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}
	return errs
}
