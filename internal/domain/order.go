package domain

import "time"

// OrderItem представляет одну позицию заказа.
// MenuID всегда берётся из каталога по description: клиентскому значению
// доверять нельзя, позиция сохраняется с разрешённым идентификатором.
type OrderItem struct {
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order агрегирует заказ посетителя и его позиции.
// Позиции живут только вместе с родителем: создаются одной транзакцией
// и удаляются каскадно вместе с ним.
type Order struct {
	ID          int64       `json:"id"`
	FranchiseID int64       `json:"franchiseId"`
	StoreID     int64       `json:"storeId"`
	DinerID     int64       `json:"dinerId,omitempty"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
}

// DinerOrders — страница заказов одного посетителя.
type DinerOrders struct {
	DinerID int64   `json:"dinerId"`
	Page    int     `json:"page"`
	Orders  []Order `json:"orders"`
}

// ValidateInvariants проверяет инварианты нового заказа до каких-либо записей.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.FranchiseID <= 0 || o.StoreID <= 0 {
		errs = append(errs, ErrOrderTargetRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}
	for _, item := range o.Items {
		if item.Description == "" {
			errs = append(errs, ErrItemDescriptionRequired)
		}
		if item.Price <= 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	return errs
}
