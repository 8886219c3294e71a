package http

import (
	"net/http"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse — пользователь и открытый для него токен.
type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// handleRegister регистрирует посетителя и сразу открывает сессию.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSessionOpened()
	}
	respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// handleLogin открывает сессию по паре email/пароль.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSessionOpened()
	}
	respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// handleLogout отзывает предъявленный токен.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, s.logger, domain.ErrUnauthorized)
		return
	}

	if err := s.auth.Logout(r.Context(), token); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSessionClosed()
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}
