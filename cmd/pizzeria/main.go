package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/app"
)

const (
	envHTTPAddr     = "PIZZERIA_HTTP_ADDR"
	envMetricsAddr  = "PIZZERIA_METRICS_ADDR"
	envPostgresDSN  = "PIZZERIA_POSTGRES_DSN"
	envJWTSecret    = "PIZZERIA_JWT_SECRET"
	envKafkaBrokers = "PIZZERIA_KAFKA_BROKERS"
)

// envLookup абстрагирует os.LookupEnv для тестов.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию приложения из переменных окружения.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию,
// а причина возвращается в списке предупреждений.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if value, ok := lookup(envHTTPAddr); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cfg.HTTPAddr = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, using default %s", envHTTPAddr, cfg.HTTPAddr))
		}
	}
	if value, ok := lookup(envMetricsAddr); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cfg.MetricsAddr = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, using default %s", envMetricsAddr, cfg.MetricsAddr))
		}
	}
	if value, ok := lookup(envPostgresDSN); ok {
		cfg.PostgresDSN = strings.TrimSpace(value)
	}
	if value, ok := lookup(envJWTSecret); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cfg.JWTSecret = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, using built-in development secret", envJWTSecret))
		}
	}
	if value, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = strings.TrimSpace(value)
	}

	return cfg, warnings
}

func main() {
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
	}).Info("запускаем сервис пиццерии")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис пиццерии остановлен")
}
