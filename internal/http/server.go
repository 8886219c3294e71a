package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/auth"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/order"
)

// Максимальный размер тела запроса.
const maxBodySize = 64 * 1024

// Server собирает обработчики API пиццерии поверх chi-роутера.
type Server struct {
	auth       *auth.Service
	orders     *order.Service
	users      domain.UserRepository
	franchises domain.FranchiseRepository

	logger  *log.Entry
	metrics *metrics.ServiceMetrics
}

// NewServer создаёт HTTP-сервер API. Метрики опциональны.
func NewServer(
	authSvc *auth.Service,
	orderSvc *order.Service,
	users domain.UserRepository,
	franchises domain.FranchiseRepository,
	logger *log.Entry,
	m *metrics.ServiceMetrics,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Server{
		auth:       authSvc,
		orders:     orderSvc,
		users:      users,
		franchises: franchises,
		logger:     logger,
		metrics:    m,
	}
}

// Router возвращает готовый роутер API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware(s.metrics))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.Put("/", s.handleLogin)
			r.Delete("/", s.handleLogout)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/me", s.handleMe)
			r.Put("/{userID}", s.handleUpdateUser)
			r.With(s.requireRole(domain.RoleAdmin)).Get("/", s.handleListUsers)
		})

		r.Route("/order", func(r chi.Router) {
			r.Get("/menu", s.handleMenu)
			r.With(s.authMiddleware, s.requireRole(domain.RoleAdmin)).Put("/menu", s.handleAddMenuItem)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Get("/", s.handleListOrders)
				r.Post("/", s.handleCreateOrder)
			})
		})

		// Первый сегмент после /franchise в разных методах означает разное
		// (пользователь в GET, франшиза в остальных), поэтому в шаблоне он
		// один и тот же безымянный {id}: chi не допускает разные имена
		// wildcard в одной позиции.
		r.Route("/franchise", func(r chi.Router) {
			r.Get("/", s.handleListFranchises)
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Get("/{id}", s.handleListUserFranchises)
				r.With(s.requireRole(domain.RoleAdmin)).Post("/", s.handleCreateFranchise)
				r.With(s.requireRole(domain.RoleAdmin)).Delete("/{id}", s.handleDeleteFranchise)
				r.Post("/{id}/store", s.handleCreateStore)
				r.Delete("/{id}/store/{storeID}", s.handleDeleteStore)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusNotFound, errorResponse{Message: "unknown endpoint"})
	})

	return r
}
