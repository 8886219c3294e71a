package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleMe возвращает пользователя текущей сессии.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleUpdateUser меняет профиль и возвращает перевыпущенный токен.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	updated, token, err := s.auth.UpdateUser(r.Context(), actor, userID, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{User: updated, Token: token})
}

// handleListUsers возвращает страницу пользователей (только для админа).
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context(), queryPage(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// pathID разбирает числовой параметр пути.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", errBadRequest, name, raw)
	}
	return id, nil
}

// queryPage разбирает параметр ?page=N; любое не-число трактуется как 1.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}
