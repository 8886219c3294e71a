package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

func newMenuWithPizza(t *testing.T) *memory.MenuRepository {
	t.Helper()

	menu := memory.NewMenuRepository()
	if _, err := menu.Add(context.Background(), domain.MenuItem{
		Title:       "Veggie",
		Description: "pizza",
		Price:       0.05,
	}); err != nil {
		t.Fatalf("add menu item: %v", err)
	}
	return menu
}

func TestOrderRepository_CreateResolvesMenuID(t *testing.T) {
	menu := newMenuWithPizza(t)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo := memory.NewOrderRepository(menu, func() time.Time { return fixed })

	created, err := repo.Create(context.Background(), 7, domain.Order{
		FranchiseID: 1,
		StoreID:     1,
		Items: []domain.OrderItem{
			// Клиентский menuID игнорируется: id разрешается по description.
			{MenuID: 999, Description: "pizza", Price: 0.05},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created order must get an id")
	}
	if created.DinerID != 7 {
		t.Fatalf("diner id: got %d, want 7", created.DinerID)
	}
	if !created.Date.Equal(fixed) {
		t.Fatalf("date: got %v, want %v", created.Date, fixed)
	}
	if len(created.Items) != 1 || created.Items[0].MenuID != 1 {
		t.Fatalf("item menu id must be resolved to 1, got %+v", created.Items)
	}
}

func TestOrderRepository_CreateUnknownItemWritesNothing(t *testing.T) {
	menu := newMenuWithPizza(t)
	repo := memory.NewOrderRepository(menu, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, 7, domain.Order{
		FranchiseID: 1,
		StoreID:     1,
		Items: []domain.OrderItem{
			{Description: "pizza", Price: 0.05},
			{Description: "no-such-dish", Price: 1},
		},
	})
	if !errors.Is(err, domain.ErrNoIDFound) {
		t.Fatalf("expected ErrNoIDFound, got %v", err)
	}

	orders, err := repo.ListByDiner(ctx, 7, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("failed create must not leave orders, got %d", len(orders))
	}
}

func TestOrderRepository_ListByDinerPagination(t *testing.T) {
	menu := newMenuWithPizza(t)
	repo := memory.NewOrderRepository(menu, nil)
	ctx := context.Background()

	for i := 0; i < 13; i++ {
		if _, err := repo.Create(ctx, 7, domain.Order{
			FranchiseID: 1,
			StoreID:     1,
			Items:       []domain.OrderItem{{Description: "pizza", Price: 0.05}},
		}); err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
	}
	// Заказ другого посетителя не должен попадать в выборку.
	if _, err := repo.Create(ctx, 8, domain.Order{
		FranchiseID: 1,
		StoreID:     1,
		Items:       []domain.OrderItem{{Description: "pizza", Price: 0.05}},
	}); err != nil {
		t.Fatalf("create foreign order: %v", err)
	}

	cases := []struct {
		page string
		p    int
		want int
	}{
		{page: "first", p: 1, want: 10},
		{page: "second", p: 2, want: 3},
		{page: "clamped to first", p: 0, want: 10},
		{page: "negative clamped", p: -5, want: 10},
		{page: "past the end", p: 3, want: 0},
	}
	for _, tc := range cases {
		orders, err := repo.ListByDiner(ctx, 7, tc.p)
		if err != nil {
			t.Fatalf("%s: list: %v", tc.page, err)
		}
		if len(orders) != tc.want {
			t.Fatalf("%s: got %d orders, want %d", tc.page, len(orders), tc.want)
		}
		for _, order := range orders {
			if order.DinerID != 7 {
				t.Fatalf("%s: foreign order %d in listing", tc.page, order.ID)
			}
		}
	}
}

func TestOrderRepository_CreateErrorNamesMissingKey(t *testing.T) {
	menu := memory.NewMenuRepository()
	repo := memory.NewOrderRepository(menu, nil)

	_, err := repo.Create(context.Background(), 1, domain.Order{
		FranchiseID: 1,
		StoreID:     1,
		Items:       []domain.OrderItem{{Description: "ghost", Price: 1}},
	})
	if err == nil {
		t.Fatal("expected error for unknown menu item")
	}
	if !errors.Is(err, domain.ErrNoIDFound) || !strings.Contains(err.Error(), `"ghost"`) {
		t.Fatalf("error must name the missing description, got %v", err)
	}
}
