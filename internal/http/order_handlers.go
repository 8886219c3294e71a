package http

import (
	"net/http"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// orderResponse — оформленный заказ вместе с подписанным чеком.
type orderResponse struct {
	Order domain.Order `json:"order"`
	JWT   string       `json:"jwt"`
}

// handleMenu отдаёт текущее меню. Эндпоинт публичный.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.orders.Menu(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// handleAddMenuItem добавляет позицию и возвращает полное меню.
func (s *Server) handleAddMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, s.logger, err)
		return
	}

	menu, err := s.orders.AddMenuItem(r.Context(), item)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, menu)
}

// handleListOrders возвращает страницу заказов текущего посетителя.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	page, err := s.orders.ListByDiner(r.Context(), user.ID, queryPage(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// handleCreateOrder оформляет заказ и прикладывает подписанный чек.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	var req domain.Order
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	created, err := s.orders.Create(r.Context(), user, req)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	receipt, err := s.auth.SignReceipt(user, created)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse{Order: created, JWT: receipt})
}
