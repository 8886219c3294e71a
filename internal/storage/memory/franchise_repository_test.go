package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

func TestFranchiseRepository_CreateAssignsFranchiseeRole(t *testing.T) {
	users := memory.NewUserRepository()
	repo := memory.NewFranchiseRepository(users)
	ctx := context.Background()

	admin, err := users.Create(ctx, domain.User{Name: "franchise owner", Email: "owner@test.com"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	created, err := repo.Create(ctx, domain.Franchise{
		Name:   "pizzaPocket",
		Admins: []domain.User{{Email: "owner@test.com"}},
	})
	if err != nil {
		t.Fatalf("create franchise: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created franchise must get an id")
	}
	if len(created.Admins) != 1 || created.Admins[0].ID != admin.ID {
		t.Fatalf("admins must be resolved by email, got %+v", created.Admins)
	}

	stored, err := users.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if !stored.AdministersFranchise(created.ID) {
		t.Fatal("admin must get the franchisee role for the new franchise")
	}
}

func TestFranchiseRepository_CreateUnknownAdmin(t *testing.T) {
	repo := memory.NewFranchiseRepository(memory.NewUserRepository())

	_, err := repo.Create(context.Background(), domain.Franchise{
		Name:   "ghost",
		Admins: []domain.User{{Email: "nobody@test.com"}},
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFranchiseRepository_DeleteRemovesFranchiseeRole(t *testing.T) {
	users := memory.NewUserRepository()
	repo := memory.NewFranchiseRepository(users)
	ctx := context.Background()

	admin, err := users.Create(ctx, domain.User{Name: "owner", Email: "owner@test.com"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	franchise, err := repo.Create(ctx, domain.Franchise{
		Name:   "pizzaPocket",
		Admins: []domain.User{{Email: "owner@test.com"}},
	})
	if err != nil {
		t.Fatalf("create franchise: %v", err)
	}

	if err := repo.Delete(ctx, franchise.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, franchise.ID); !errors.Is(err, domain.ErrFranchiseNotFound) {
		t.Fatalf("second delete: expected ErrFranchiseNotFound, got %v", err)
	}

	stored, err := users.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if stored.AdministersFranchise(franchise.ID) {
		t.Fatal("franchisee role must be removed with the franchise")
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("deleted franchise still listed: %+v", all)
	}
}

func TestFranchiseRepository_Stores(t *testing.T) {
	users := memory.NewUserRepository()
	repo := memory.NewFranchiseRepository(users)
	ctx := context.Background()

	franchise, err := repo.Create(ctx, domain.Franchise{Name: "pizzaPocket"})
	if err != nil {
		t.Fatalf("create franchise: %v", err)
	}

	store, err := repo.CreateStore(ctx, franchise.ID, domain.Store{Name: "SLC"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.ID == 0 || store.FranchiseID != franchise.ID {
		t.Fatalf("store must be bound to the franchise, got %+v", store)
	}

	if _, err := repo.CreateStore(ctx, 999, domain.Store{Name: "orphan"}); !errors.Is(err, domain.ErrFranchiseNotFound) {
		t.Fatalf("unknown franchise: expected ErrFranchiseNotFound, got %v", err)
	}

	if err := repo.DeleteStore(ctx, franchise.ID, store.ID); err != nil {
		t.Fatalf("delete store: %v", err)
	}
	if err := repo.DeleteStore(ctx, franchise.ID, store.ID); !errors.Is(err, domain.ErrStoreNotFound) {
		t.Fatalf("second delete: expected ErrStoreNotFound, got %v", err)
	}
}

func TestFranchiseRepository_ListForUser(t *testing.T) {
	users := memory.NewUserRepository()
	repo := memory.NewFranchiseRepository(users)
	ctx := context.Background()

	owner, err := users.Create(ctx, domain.User{Name: "owner", Email: "owner@test.com"})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Franchise{
		Name:   "mine",
		Admins: []domain.User{{Email: "owner@test.com"}},
	}); err != nil {
		t.Fatalf("create owned franchise: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Franchise{Name: "foreign"}); err != nil {
		t.Fatalf("create foreign franchise: %v", err)
	}

	mine, err := repo.ListForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "mine" {
		t.Fatalf("list for user: got %+v", mine)
	}
}
