package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// Service выдаёт, проверяет и отзывает сессионные токены.
// Токен считается действительным только пока его подпись числится
// в allow-list активных сессий: проверки одной лишь подписи JWT недостаточно.
type Service struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	secret   []byte
	logger   *log.Entry
}

// sessionClaims — полезная нагрузка сессионного токена: сам пользователь.
type sessionClaims struct {
	UserID int64         `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Roles  []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// NewService создаёт сервис аутентификации.
func NewService(users domain.UserRepository, sessions domain.SessionRepository, secret []byte, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "auth")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		logger:   logger,
	}
}

// Register регистрирует нового посетителя и сразу открывает сессию.
func (s *Service) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	user := domain.User{
		Name:  name,
		Email: email,
		Roles: []domain.Role{{Role: domain.RoleDiner}},
	}
	if errs := user.ValidateNew(password); len(errs) > 0 {
		return domain.User{}, "", errors.Join(errs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.openSession(ctx, created)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.WithField("user_id", created.ID).Info("user registered")
	return created, token, nil
}

// Login проверяет пароль и открывает новую сессию.
// Неизвестный email и неверный пароль дают одну и ту же ошибку.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return user, token, nil
}

// Logout отзывает сессию. Повторный выход с тем же токеном не ошибка.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate возвращает пользователя по токену. Подпись JWT и членство
// в allow-list проверяются обе: отозванный токен с валидной подписью не проходит.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, "invalid token")
	}

	active, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("validate session: %w", err)
	}
	if !active {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, "session revoked")
	}

	return domain.User{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: claims.Roles,
	}, nil
}

// UpdateUser меняет профиль и перевыпускает токен под обновлённые данные.
// Пользователь меняет только себя, админ — кого угодно.
func (s *Service) UpdateUser(ctx context.Context, actor domain.User, userID int64, name, email, password string) (domain.User, string, error) {
	if actor.ID != userID && !actor.IsRole(domain.RoleAdmin) {
		return domain.User{}, "", domain.ErrForbidden
	}

	hash := ""
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, "", fmt.Errorf("hash password: %w", err)
		}
		hash = string(hashed)
	}

	updated, err := s.users.Update(ctx, userID, name, email, hash)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.openSession(ctx, updated)
	if err != nil {
		return domain.User{}, "", err
	}
	return updated, token, nil
}

// receiptClaims — полезная нагрузка чека заказа.
type receiptClaims struct {
	Diner domain.User  `json:"diner"`
	Order domain.Order `json:"order"`
	jwt.RegisteredClaims
}

// SignReceipt подписывает чек оформленного заказа тем же ключом сервиса.
func (s *Service) SignReceipt(diner domain.User, order domain.Order) (string, error) {
	claims := receiptClaims{
		Diner: domain.User{ID: diner.ID, Name: diner.Name, Email: diner.Email},
		Order: order,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	receipt, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return receipt, nil
}

// openSession подписывает токен и кладёт его подпись в allow-list.
func (s *Service) openSession(ctx context.Context, user domain.User) (string, error) {
	claims := sessionClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti делает токены разных входов различимыми даже в одну секунду.
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Issue(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}
