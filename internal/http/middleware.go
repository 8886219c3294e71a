package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
)

type contextKey string

const (
	contextKeyUser      contextKey = "user"
	contextKeyRequestID contextKey = "request_id"
)

const requestIDHeader = "X-Request-Id"

// userFromContext достаёт аутентифицированного пользователя из контекста.
func userFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(contextKeyUser).(domain.User)
	return user, ok
}

// requestIDMiddleware присваивает каждому запросу идентификатор.
// Пришедший от клиента заголовок сохраняется, иначе генерируется новый.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder запоминает статус, записанный обработчиком.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware записывает счётчик и латентность запроса.
// Route-лейбл берётся из шаблона chi, а не из сырого пути,
// чтобы не раздувать кардинальность метрик.
func metricsMiddleware(m *metrics.ServiceMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(r.Method, route, recorder.status, time.Since(start))
		})
	}
}

// authMiddleware требует действующую сессию и кладёт пользователя в контекст.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if s.metrics != nil {
				s.metrics.RecordAuthFailure()
			}
			respondError(w, s.logger, domain.ErrUnauthorized)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordAuthFailure()
			}
			respondError(w, s.logger, err)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordAuthSuccess()
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole пускает дальше только пользователей с указанной ролью.
func (s *Server) requireRole(role domain.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				respondError(w, s.logger, domain.ErrUnauthorized)
				return
			}
			if !user.IsRole(role) {
				respondError(w, s.logger, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
