package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// sessionRepositoryInMemory — in-memory allow-list сессий для тестов и dev-режима.
type sessionRepositoryInMemory struct {
	mu sync.RWMutex
	// подпись токена -> владельцы сессий с этой подписью
	sessions map[string][]int64
}

// NewSessionRepository возвращает in-memory реализацию SessionRepository.
func NewSessionRepository() domain.SessionRepository {
	return &sessionRepositoryInMemory{
		sessions: make(map[string][]int64),
	}
}

func (r *sessionRepositoryInMemory) Issue(_ context.Context, userID int64, token string) error {
	signature := domain.TokenSignature(token)
	if signature == "" {
		return fmt.Errorf("issue session: %w", domain.ErrMalformedToken)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Дедупликации нет, как и в постоянном хранилище.
	r.sessions[signature] = append(r.sessions[signature], userID)
	return nil
}

func (r *sessionRepositoryInMemory) Validate(_ context.Context, token string) (bool, error) {
	signature := domain.TokenSignature(token)
	if signature == "" {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions[signature]) > 0, nil
}

func (r *sessionRepositoryInMemory) Revoke(_ context.Context, token string) error {
	signature := domain.TokenSignature(token)
	if signature == "" {
		return fmt.Errorf("revoke session: %w", domain.ErrMalformedToken)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, signature)
	return nil
}

var _ domain.SessionRepository = (*sessionRepositoryInMemory)(nil)
