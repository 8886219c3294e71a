package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/pizzeria/internal/health"
	pizzahttp "github.com/vladislavdragonenkov/pizzeria/internal/http"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/auth"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/order"
	"github.com/vladislavdragonenkov/pizzeria/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	// PostgresDSN пустой — сервис работает на in-memory хранилищах (dev-режим).
	PostgresDSN  string
	JWTSecret    string
	KafkaBrokers string
}

// DefaultConfig возвращает базовые адреса и dev-ключ подписи.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":3000",
		MetricsAddr: ":9090",
		JWTSecret:   "dev-secret-change-me",
	}
}

// Run поднимает API пиццерии и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(logger)

	if err := seedDefaultAdmin(ctx, deps.Users, logger); err != nil {
		return err
	}

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	serviceMetrics := metrics.NewServiceMetrics()
	authSvc := auth.NewService(deps.Users, deps.Sessions, []byte(cfg.JWTSecret), logger.WithField("layer", "auth"))

	orderOpts := []order.Option{order.WithMetrics(serviceMetrics)}
	if kafkaProducer != nil {
		orderOpts = append(orderOpts, order.WithKafka(kafkaProducer))
	}
	orderSvc := order.NewService(deps.Orders, deps.Menu, logger.WithField("layer", "order"), orderOpts...)

	server := pizzahttp.NewServer(authSvc, orderSvc, deps.Users, deps.Franchises, logger.WithField("layer", "http"), serviceMetrics)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewStorageChecker("postgres", deps.Store, 3*time.Second))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Router()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API пиццерии слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает /metrics, /healthz и /livez на отдельном порту.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
