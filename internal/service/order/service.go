package order

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
)

// Service оформляет заказы и отдаёт историю заказов посетителя.
type Service struct {
	orders domain.OrderRepository
	menu   domain.MenuRepository

	logger  *log.Entry
	metrics *metrics.ServiceMetrics
	// Опциональный producer: без Kafka заказы оформляются как обычно.
	kafkaProducer *kafka.Producer
}

// Option настраивает сервис заказов.
type Option func(*Service)

// WithMetrics подключает метрики заказов.
func WithMetrics(m *metrics.ServiceMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithKafka подключает публикацию событий order.created.
func WithKafka(producer *kafka.Producer) Option {
	return func(s *Service) { s.kafkaProducer = producer }
}

// NewService создаёт сервис заказов.
func NewService(orders domain.OrderRepository, menu domain.MenuRepository, logger *log.Entry, opts ...Option) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	s := &Service{
		orders: orders,
		menu:   menu,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create оформляет заказ от имени посетителя. Позиции заказа проверяются,
// menu_id каждой позиции разрешается хранилищем по description: клиентским
// идентификаторам сервис не доверяет.
func (s *Service) Create(ctx context.Context, diner domain.User, order domain.Order) (domain.Order, error) {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	created, err := s.orders.Create(ctx, diner.ID, order)
	if err != nil {
		s.logger.WithError(err).WithField("diner_id", diner.ID).Error("failed to create order")
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": created.ID,
		"diner_id": diner.ID,
		"items":    len(created.Items),
	}).Info("order created")

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(len(created.Items), orderTotal(created))
	}
	s.publishCreated(created)

	return created, nil
}

// ListByDiner возвращает страницу истории заказов посетителя.
func (s *Service) ListByDiner(ctx context.Context, dinerID int64, page int) (domain.DinerOrders, error) {
	orders, err := s.orders.ListByDiner(ctx, dinerID, page)
	if err != nil {
		return domain.DinerOrders{}, fmt.Errorf("list orders: %w", err)
	}
	return domain.DinerOrders{
		DinerID: dinerID,
		Page:    page,
		Orders:  orders,
	}, nil
}

// Menu возвращает текущее меню.
func (s *Service) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.menu.List(ctx)
}

// AddMenuItem добавляет позицию и возвращает обновлённое меню.
func (s *Service) AddMenuItem(ctx context.Context, item domain.MenuItem) ([]domain.MenuItem, error) {
	if errs := item.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s.menu.Add(ctx, item)
}

// publishCreated отправляет событие в Kafka. Сбой публикации не откатывает
// заказ: событие вспомогательное, заказ уже зафиксирован.
func (s *Service) publishCreated(order domain.Order) {
	if s.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderCreatedEvent(
		order.ID,
		order.DinerID,
		order.FranchiseID,
		order.StoreID,
		len(order.Items),
		orderTotal(order),
	)
	if err := s.kafkaProducer.PublishOrderEvent(event); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}
}

func orderTotal(order domain.Order) float64 {
	total := 0.0
	for _, item := range order.Items {
		total += item.Price
	}
	return total
}
