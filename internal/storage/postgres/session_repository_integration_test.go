package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

func TestSessionRepository_PostgresIssueValidateRevoke(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	diner := seedDinerForIntegrationTest(t, store, "diner-sessions@test.com")
	repo := NewSessionRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const token = "a.b.c"

	ok, err := repo.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate before issue: %v", err)
	}
	if ok {
		t.Fatal("token must not validate before issue")
	}

	if err := repo.Issue(ctx, diner.ID, token); err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err = repo.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate after issue: %v", err)
	}
	if !ok {
		t.Fatal("issued token must validate")
	}

	if err := repo.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err = repo.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate after revoke: %v", err)
	}
	if ok {
		t.Fatal("revoked token must not validate")
	}

	// Повторный revoke идемпотентен.
	if err := repo.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke twice: %v", err)
	}
}

func TestSessionRepository_PostgresMalformedToken(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	diner := seedDinerForIntegrationTest(t, store, "diner-malformed@test.com")
	repo := NewSessionRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.Issue(ctx, diner.ID, "not-a-jwt"); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}

	ok, err := repo.Validate(ctx, "only.two")
	if err != nil {
		t.Fatalf("validate malformed: %v", err)
	}
	if ok {
		t.Fatal("malformed token must not validate")
	}
}

func TestSessionRepository_PostgresConcurrentSessions(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	diner := seedDinerForIntegrationTest(t, store, "diner-concurrent@test.com")
	repo := NewSessionRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// У пользователя может быть несколько активных сессий одновременно.
	if err := repo.Issue(ctx, diner.ID, "h.p.first"); err != nil {
		t.Fatalf("issue first: %v", err)
	}
	if err := repo.Issue(ctx, diner.ID, "h.p.second"); err != nil {
		t.Fatalf("issue second: %v", err)
	}

	for _, token := range []string{"h.p.first", "h.p.second"} {
		ok, err := repo.Validate(ctx, token)
		if err != nil {
			t.Fatalf("validate %s: %v", token, err)
		}
		if !ok {
			t.Fatalf("token %s must validate", token)
		}
	}

	if err := repo.Revoke(ctx, "h.p.first"); err != nil {
		t.Fatalf("revoke first: %v", err)
	}
	ok, err := repo.Validate(ctx, "h.p.second")
	if err != nil {
		t.Fatalf("validate second after revoking first: %v", err)
	}
	if !ok {
		t.Fatal("revoking one session must not touch the other")
	}
}
