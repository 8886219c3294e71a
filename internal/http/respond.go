package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// errBadRequest помечает синтаксически некорректные запросы (битый JSON,
// нечисловые параметры пути).
var errBadRequest = errors.New("invalid request body")

// errorResponse — единый формат ошибки API.
type errorResponse struct {
	Message string `json:"message"`
}

// respondJSON сериализует payload и пишет его с указанным статусом.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// respondError переводит доменную ошибку в HTTP-статус и тело ответа.
func respondError(w http.ResponseWriter, logger *log.Entry, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
	} else {
		logger.WithError(err).Debug("request rejected")
	}
	respondJSON(w, status, errorResponse{Message: err.Error()})
}

// statusFromError классифицирует ошибку по доменным sentinel-ошибкам.
func statusFromError(err error) int {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON читает тело запроса в dst, ограничивая его размер.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
