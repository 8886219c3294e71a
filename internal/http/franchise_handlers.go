package http

import (
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type createFranchiseRequest struct {
	Name   string   `json:"name"`
	Admins []string `json:"admins"`
}

type createStoreRequest struct {
	Name string `json:"name"`
}

// handleListFranchises отдаёт все франшизы с магазинами и выручкой.
// Эндпоинт публичный.
func (s *Server) handleListFranchises(w http.ResponseWriter, r *http.Request) {
	franchises, err := s.franchises.List(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, franchises)
}

// handleListUserFranchises отдаёт франшизы, которыми управляет пользователь.
// Чужой список виден только админу.
func (s *Server) handleListUserFranchises(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if actor.ID != userID && !actor.IsRole(domain.RoleAdmin) {
		// Пустой список вместо 403: так чужие франшизы не перечислить.
		respondJSON(w, http.StatusOK, []domain.Franchise{})
		return
	}

	franchises, err := s.franchises.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, franchises)
}

// handleCreateFranchise создаёт франшизу, разрешая админов по email.
func (s *Server) handleCreateFranchise(w http.ResponseWriter, r *http.Request) {
	var req createFranchiseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	franchise := domain.Franchise{Name: req.Name}
	for _, email := range req.Admins {
		franchise.Admins = append(franchise.Admins, domain.User{Email: email})
	}
	if errs := franchise.Validate(); len(errs) > 0 {
		respondError(w, s.logger, errors.Join(errs...))
		return
	}

	created, err := s.franchises.Create(r.Context(), franchise)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

// handleDeleteFranchise удаляет франшизу вместе с магазинами и ролями.
func (s *Server) handleDeleteFranchise(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.franchises.Delete(r.Context(), franchiseID); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "franchise deleted"})
}

// handleCreateStore создаёт магазин. Доступно админу сервиса
// или администратору этой франшизы.
func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	franchiseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if !actor.IsRole(domain.RoleAdmin) && !actor.AdministersFranchise(franchiseID) {
		respondError(w, s.logger, domain.ErrForbidden)
		return
	}

	var req createStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if req.Name == "" {
		respondError(w, s.logger, domain.ErrNameRequired)
		return
	}

	store, err := s.franchises.CreateStore(r.Context(), franchiseID, domain.Store{Name: req.Name})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

// handleDeleteStore удаляет магазин франшизы. Права те же, что и у создания.
func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	franchiseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	storeID, err := pathID(r, "storeID")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if !actor.IsRole(domain.RoleAdmin) && !actor.AdministersFranchise(franchiseID) {
		respondError(w, s.logger, domain.ErrForbidden)
		return
	}

	if err := s.franchises.DeleteStore(r.Context(), franchiseID, storeID); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "store deleted"})
}
