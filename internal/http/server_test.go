package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	pizzahttp "github.com/vladislavdragonenkov/pizzeria/internal/http"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/auth"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/order"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

type testEnv struct {
	server *httptest.Server
	users  *memory.UserRepository
	menu   *memory.MenuRepository
}

// newTestEnv поднимает сервер на in-memory хранилищах с засеянными
// админом и одной позицией меню.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	menu := memory.NewMenuRepository()
	orders := memory.NewOrderRepository(menu, nil)
	franchises := memory.NewFranchiseRepository(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	if _, err := users.Create(context.Background(), domain.User{
		Name:         "常用名字",
		Email:        "a@jwt.com",
		Roles:        []domain.Role{{Role: domain.RoleAdmin}},
		PasswordHash: string(hash),
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := menu.Add(context.Background(), domain.MenuItem{
		Title:       "Veggie",
		Description: "pizza",
		Price:       0.05,
	}); err != nil {
		t.Fatalf("seed menu: %v", err)
	}

	authSvc := auth.NewService(users, sessions, []byte("test-secret"), nil)
	orderSvc := order.NewService(orders, menu, nil)
	server := pizzahttp.NewServer(authSvc, orderSvc, users, franchises, nil, nil)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, users: users, menu: menu}
}

// do выполняет запрос с JSON-телом и разбирает JSON-ответ в out.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type authPayload struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (e *testEnv) register(t *testing.T, name, email, password string) authPayload {
	t.Helper()

	var out authPayload
	status := e.do(t, http.MethodPost, "/api/auth", "", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if status != http.StatusOK {
		t.Fatalf("register %s: status %d", email, status)
	}
	return out
}

func (e *testEnv) loginAdmin(t *testing.T) authPayload {
	t.Helper()

	var out authPayload
	status := e.do(t, http.MethodPut, "/api/auth", "", map[string]string{
		"email": "a@jwt.com", "password": "admin",
	}, &out)
	if status != http.StatusOK {
		t.Fatalf("admin login: status %d", status)
	}
	return out
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	registered := env.register(t, "pizza diner", "d@jwt.com", "diner")
	if registered.Token == "" || registered.User.ID == 0 {
		t.Fatalf("register payload: %+v", registered)
	}

	var me domain.User
	if status := env.do(t, http.MethodGet, "/api/user/me", registered.Token, nil, &me); status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	if me.Email != "d@jwt.com" {
		t.Fatalf("me: got %+v", me)
	}

	if status := env.do(t, http.MethodGet, "/api/user/me", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me without token: status %d", status)
	}

	if status := env.do(t, http.MethodPut, "/api/auth", "", map[string]string{
		"email": "d@jwt.com", "password": "wrong",
	}, nil); status != http.StatusUnauthorized {
		t.Fatalf("wrong password login: status %d", status)
	}

	if status := env.do(t, http.MethodDelete, "/api/auth", registered.Token, nil, nil); status != http.StatusOK {
		t.Fatalf("logout: status %d", status)
	}
	if status := env.do(t, http.MethodGet, "/api/user/me", registered.Token, nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, http.MethodPost, "/api/auth", "", map[string]string{"name": "x"}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("register without email/password: status %d", status)
	}

	// Повторная регистрация на занятый email.
	env.register(t, "diner", "d@jwt.com", "diner")
	status = env.do(t, http.MethodPost, "/api/auth", "", map[string]string{
		"name": "again", "email": "d@jwt.com", "password": "x",
	}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d", status)
	}
}

func TestMenuEndpoints(t *testing.T) {
	env := newTestEnv(t)

	var items []domain.MenuItem
	if status := env.do(t, http.MethodGet, "/api/order/menu", "", nil, &items); status != http.StatusOK {
		t.Fatalf("menu: status %d", status)
	}
	if len(items) != 1 {
		t.Fatalf("menu: got %d items", len(items))
	}

	newItem := map[string]any{"title": "Student", "description": "no topping", "image": "pizza9.png", "price": 0.0001}

	if status := env.do(t, http.MethodPut, "/api/order/menu", "", newItem, nil); status != http.StatusUnauthorized {
		t.Fatalf("add item without token: status %d", status)
	}

	diner := env.register(t, "diner", "d@jwt.com", "diner")
	if status := env.do(t, http.MethodPut, "/api/order/menu", diner.Token, newItem, nil); status != http.StatusForbidden {
		t.Fatalf("add item as diner: status %d", status)
	}

	admin := env.loginAdmin(t)
	var updated []domain.MenuItem
	if status := env.do(t, http.MethodPut, "/api/order/menu", admin.Token, newItem, &updated); status != http.StatusOK {
		t.Fatalf("add item as admin: status %d", status)
	}
	if len(updated) != 2 {
		t.Fatalf("add item must return the full menu, got %d items", len(updated))
	}
}

func TestOrderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	diner := env.register(t, "diner", "d@jwt.com", "diner")

	orderBody := map[string]any{
		"franchiseId": 1,
		"storeId":     1,
		"items": []map[string]any{
			// Клиентский menuId подменён: сервер обязан разрешить его заново.
			{"menuId": 999, "description": "pizza", "price": 0.05},
		},
	}

	var created struct {
		Order domain.Order `json:"order"`
		JWT   string       `json:"jwt"`
	}
	if status := env.do(t, http.MethodPost, "/api/order", diner.Token, orderBody, &created); status != http.StatusOK {
		t.Fatalf("create order: status %d", status)
	}
	if created.Order.Items[0].MenuID != 1 {
		t.Fatalf("menu id must be resolved to 1, got %d", created.Order.Items[0].MenuID)
	}
	if created.JWT == "" {
		t.Fatal("order response must carry a signed receipt")
	}

	var page domain.DinerOrders
	if status := env.do(t, http.MethodGet, "/api/order?page=1", diner.Token, nil, &page); status != http.StatusOK {
		t.Fatalf("list orders: status %d", status)
	}
	if len(page.Orders) != 1 || page.DinerID != diner.User.ID {
		t.Fatalf("orders page: %+v", page)
	}

	// page вне диапазона значений прижимается к первой странице.
	if status := env.do(t, http.MethodGet, "/api/order?page=-3", diner.Token, nil, &page); status != http.StatusOK {
		t.Fatalf("list orders negative page: status %d", status)
	}
	if len(page.Orders) != 1 {
		t.Fatalf("negative page must behave like the first, got %d orders", len(page.Orders))
	}

	if status := env.do(t, http.MethodPost, "/api/order", diner.Token, map[string]any{
		"franchiseId": 1,
		"storeId":     1,
		"items":       []map[string]any{{"description": "no-such-dish", "price": 1}},
	}, nil); status != http.StatusNotFound {
		t.Fatalf("order with unknown item: status %d", status)
	}

	if status := env.do(t, http.MethodPost, "/api/order", diner.Token, map[string]any{
		"franchiseId": 1, "storeId": 1, "items": []map[string]any{},
	}, nil); status != http.StatusBadRequest {
		t.Fatalf("order without items: status %d", status)
	}
}

func TestUpdateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	diner := env.register(t, "diner", "d@jwt.com", "diner")
	admin := env.loginAdmin(t)

	var updated authPayload
	path := fmt.Sprintf("/api/user/%d", diner.User.ID)
	if status := env.do(t, http.MethodPut, path, diner.Token, map[string]string{"name": "renamed"}, &updated); status != http.StatusOK {
		t.Fatalf("self update: status %d", status)
	}
	if updated.User.Name != "renamed" || updated.Token == "" {
		t.Fatalf("self update payload: %+v", updated)
	}

	// Посетитель не может трогать чужой профиль, админ — может.
	adminPath := fmt.Sprintf("/api/user/%d", admin.User.ID)
	if status := env.do(t, http.MethodPut, adminPath, diner.Token, map[string]string{"name": "hacked"}, nil); status != http.StatusForbidden {
		t.Fatalf("foreign update: status %d", status)
	}
	if status := env.do(t, http.MethodPut, path, admin.Token, map[string]string{"name": "by admin"}, nil); status != http.StatusOK {
		t.Fatalf("admin update: status %d", status)
	}

	if status := env.do(t, http.MethodPut, "/api/user/not-a-number", admin.Token, map[string]string{}, nil); status != http.StatusBadRequest {
		t.Fatalf("non-numeric user id: status %d", status)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	diner := env.register(t, "diner", "d@jwt.com", "diner")
	admin := env.loginAdmin(t)

	if status := env.do(t, http.MethodGet, "/api/user", diner.Token, nil, nil); status != http.StatusForbidden {
		t.Fatalf("list users as diner: status %d", status)
	}

	var users []domain.User
	if status := env.do(t, http.MethodGet, "/api/user", admin.Token, nil, &users); status != http.StatusOK {
		t.Fatalf("list users as admin: status %d", status)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
}

func TestFranchiseEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner", "f@jwt.com", "franchisee")
	admin := env.loginAdmin(t)

	franchiseBody := map[string]any{"name": "pizzaPocket", "admins": []string{"f@jwt.com"}}

	if status := env.do(t, http.MethodPost, "/api/franchise", owner.Token, franchiseBody, nil); status != http.StatusForbidden {
		t.Fatalf("create franchise as diner: status %d", status)
	}

	var franchise domain.Franchise
	if status := env.do(t, http.MethodPost, "/api/franchise", admin.Token, franchiseBody, &franchise); status != http.StatusOK {
		t.Fatalf("create franchise: status %d", status)
	}
	if franchise.ID == 0 || len(franchise.Admins) != 1 || franchise.Admins[0].ID != owner.User.ID {
		t.Fatalf("created franchise: %+v", franchise)
	}

	if status := env.do(t, http.MethodPost, "/api/franchise", admin.Token, map[string]any{
		"name": "ghost", "admins": []string{"nobody@jwt.com"},
	}, nil); status != http.StatusNotFound {
		t.Fatalf("franchise with unknown admin: status %d", status)
	}

	// Владелец франшизы управляет её магазинами после перелогина
	// (роль franchisee попала в новый токен).
	relogged := authPayload{}
	if status := env.do(t, http.MethodPut, "/api/auth", "", map[string]string{
		"email": "f@jwt.com", "password": "franchisee",
	}, &relogged); status != http.StatusOK {
		t.Fatalf("owner relogin: status %d", status)
	}

	storePath := fmt.Sprintf("/api/franchise/%d/store", franchise.ID)
	var store domain.Store
	if status := env.do(t, http.MethodPost, storePath, relogged.Token, map[string]string{"name": "SLC"}, &store); status != http.StatusOK {
		t.Fatalf("create store as owner: status %d", status)
	}
	if store.FranchiseID != franchise.ID {
		t.Fatalf("store: %+v", store)
	}

	stranger := env.register(t, "stranger", "s@jwt.com", "x")
	if status := env.do(t, http.MethodPost, storePath, stranger.Token, map[string]string{"name": "intruded"}, nil); status != http.StatusForbidden {
		t.Fatalf("create store as stranger: status %d", status)
	}

	var all []domain.Franchise
	if status := env.do(t, http.MethodGet, "/api/franchise", "", nil, &all); status != http.StatusOK {
		t.Fatalf("list franchises: status %d", status)
	}
	if len(all) != 1 || len(all[0].Stores) != 1 {
		t.Fatalf("franchise listing: %+v", all)
	}

	var mine []domain.Franchise
	minePath := fmt.Sprintf("/api/franchise/%d", owner.User.ID)
	if status := env.do(t, http.MethodGet, minePath, relogged.Token, nil, &mine); status != http.StatusOK {
		t.Fatalf("list own franchises: status %d", status)
	}
	if len(mine) != 1 {
		t.Fatalf("own franchises: %+v", mine)
	}
	// Чужой список для не-админа выглядит пустым.
	var foreign []domain.Franchise
	if status := env.do(t, http.MethodGet, minePath, stranger.Token, nil, &foreign); status != http.StatusOK {
		t.Fatalf("list foreign franchises: status %d", status)
	}
	if len(foreign) != 0 {
		t.Fatalf("foreign listing must be empty, got %+v", foreign)
	}

	deleteStorePath := fmt.Sprintf("/api/franchise/%d/store/%d", franchise.ID, store.ID)
	if status := env.do(t, http.MethodDelete, deleteStorePath, relogged.Token, nil, nil); status != http.StatusOK {
		t.Fatalf("delete store: status %d", status)
	}

	franchisePath := fmt.Sprintf("/api/franchise/%d", franchise.ID)
	if status := env.do(t, http.MethodDelete, franchisePath, relogged.Token, nil, nil); status != http.StatusForbidden {
		t.Fatalf("delete franchise as owner: status %d", status)
	}
	if status := env.do(t, http.MethodDelete, franchisePath, admin.Token, nil, nil); status != http.StatusOK {
		t.Fatalf("delete franchise as admin: status %d", status)
	}
	if status := env.do(t, http.MethodDelete, franchisePath, admin.Token, nil, nil); status != http.StatusNotFound {
		t.Fatalf("delete missing franchise: status %d", status)
	}
}

func TestBadRequests(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/auth", bytes.NewReader([]byte("{broken")))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("broken body request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("broken JSON: status %d", resp.StatusCode)
	}

	if status := env.do(t, http.MethodGet, "/api/nope", "", nil, nil); status != http.StatusNotFound {
		t.Fatalf("unknown endpoint: status %d", status)
	}
}
