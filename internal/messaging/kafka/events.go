package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	// EventTypeOrderCreated публикуется после успешной фиксации заказа.
	EventTypeOrderCreated EventType = "order.created"
)

// TopicOrderEvents — топик событий заказов пиццерии.
const TopicOrderEvents = "pizzeria.order-events"

// OrderEvent представляет событие заказа для внешних потребителей.
type OrderEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     int64     `json:"order_id"`
	DinerID     int64     `json:"diner_id"`
	FranchiseID int64     `json:"franchise_id"`
	StoreID     int64     `json:"store_id"`
	ItemCount   int       `json:"item_count"`
	Total       float64   `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent создаёт событие о новом заказе.
func NewOrderCreatedEvent(orderID, dinerID, franchiseID, storeID int64, itemCount int, total float64) *OrderEvent {
	return &OrderEvent{
		EventType:   EventTypeOrderCreated,
		OrderID:     orderID,
		DinerID:     dinerID,
		FranchiseID: franchiseID,
		StoreID:     storeID,
		ItemCount:   itemCount,
		Total:       total,
		Timestamp:   time.Now().UTC(),
	}
}
