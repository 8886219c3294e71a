package app

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("expected HTTP addr :3000, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected metrics addr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.JWTSecret == "" {
		t.Error("default config must carry a dev JWT secret")
	}
	if cfg.PostgresDSN != "" {
		t.Error("default config must not assume a database")
	}
}

func TestNewMemoryDependencies(t *testing.T) {
	deps := NewMemoryDependencies()

	if deps.Store != nil {
		t.Error("memory dependencies must not open postgres")
	}
	if deps.Users == nil || deps.Sessions == nil || deps.Menu == nil || deps.Orders == nil || deps.Franchises == nil {
		t.Fatal("all repositories must be initialized")
	}

	// Close без postgres — no-op.
	deps.Close(testLogger())
}

func TestSeedDefaultAdmin(t *testing.T) {
	deps := NewMemoryDependencies()
	ctx := context.Background()

	if err := seedDefaultAdmin(ctx, deps.Users, testLogger()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	admin, err := deps.Users.GetByEmail(ctx, defaultAdminEmail)
	if err != nil {
		t.Fatalf("default admin not created: %v", err)
	}
	if !admin.IsRole(domain.RoleAdmin) {
		t.Fatalf("seeded user must be admin, got %+v", admin.Roles)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == defaultAdminPassword {
		t.Fatal("admin password must be stored as a hash")
	}

	// Повторный посев идемпотентен.
	if err := seedDefaultAdmin(ctx, deps.Users, testLogger()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	users, err := deps.Users.List(ctx, 1)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("seed must not duplicate the admin, got %d users", len(users))
	}
}

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	producer, err := initKafkaProducer("", testLogger())
	if producer != nil || err != nil {
		t.Fatalf("empty brokers must be a no-op, got producer=%v err=%v", producer, err)
	}
}

func TestInitKafkaProducer_UnreachableBrokers(t *testing.T) {
	// Недоступный брокер — ошибка, но без паники: сервис продолжит без Kafka.
	producer, err := initKafkaProducer("127.0.0.1:1", testLogger())
	if producer != nil {
		t.Fatal("unreachable broker must not produce a producer")
	}
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	// Случайные порты, чтобы не конфликтовать с другими тестами.
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Run(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
