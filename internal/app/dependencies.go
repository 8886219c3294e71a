package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/postgres"
)

// Dependencies содержит репозитории приложения.
// Store равен nil в dev-режиме на in-memory хранилищах.
type Dependencies struct {
	Store      *postgres.Store
	Users      domain.UserRepository
	Sessions   domain.SessionRepository
	Menu       domain.MenuRepository
	Orders     domain.OrderRepository
	Franchises domain.FranchiseRepository
}

// NewDependencies собирает зависимости: postgres при заданном DSN,
// иначе in-memory (dev-режим).
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if cfg.PostgresDSN == "" {
		logger.Warn("PIZZERIA_POSTGRES_DSN не задан, работаем на in-memory хранилищах")
		return NewMemoryDependencies(), nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("схема базы данных актуальна")

	now := func() time.Time { return time.Now().UTC() }
	return &Dependencies{
		Store:      store,
		Users:      postgres.NewUserRepository(store),
		Sessions:   postgres.NewSessionRepository(store),
		Menu:       postgres.NewMenuRepository(store),
		Orders:     postgres.NewOrderRepository(store, now),
		Franchises: postgres.NewFranchiseRepository(store),
	}, nil
}

// NewMemoryDependencies собирает in-memory зависимости для dev-режима и тестов.
func NewMemoryDependencies() *Dependencies {
	users := memory.NewUserRepository()
	menu := memory.NewMenuRepository()
	return &Dependencies{
		Users:      users,
		Sessions:   memory.NewSessionRepository(),
		Menu:       menu,
		Orders:     memory.NewOrderRepository(menu, nil),
		Franchises: memory.NewFranchiseRepository(users),
	}
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close(logger *log.Entry) {
	if d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}
