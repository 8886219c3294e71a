package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// Учётная запись администратора по умолчанию.
const (
	defaultAdminName     = "常用名字"
	defaultAdminEmail    = "a@jwt.com"
	defaultAdminPassword = "admin"
)

// seedDefaultAdmin создаёт администратора по умолчанию, если его ещё нет.
// Повторные запуски ничего не меняют.
func seedDefaultAdmin(ctx context.Context, users domain.UserRepository, logger *log.Entry) error {
	if _, err := users.GetByEmail(ctx, defaultAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("lookup default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	_, err = users.Create(ctx, domain.User{
		Name:         defaultAdminName,
		Email:        defaultAdminEmail,
		Roles:        []domain.Role{{Role: domain.RoleAdmin}},
		PasswordHash: string(hash),
	})
	if err != nil {
		// Параллельный запуск мог успеть создать админа первым.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("create default admin: %w", err)
	}

	logger.WithField("email", defaultAdminEmail).Info("создан администратор по умолчанию")
	return nil
}
