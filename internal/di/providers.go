package di

import (
	"context"
	"fmt"
	"time"

	"DemandCast/internal/domain/service"
	"DemandCast/internal/handler/api"
	"DemandCast/internal/service/ratelimit"
	"DemandCast/internal/services/scoring"
	"DemandCast/internal/usecase"
	"DemandCast/pkg/config"
	xhttp "DemandCast/pkg/http"
	"DemandCast/pkg/http/middleware"
	pkgkafka "DemandCast/pkg/kafka"
	applogger "DemandCast/pkg/logger"
	"DemandCast/pkg/metrics"
	"DemandCast/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "demandcast-gateway"

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("service", serviceName), applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) service.Metrics {
	return metrics.NewWithRegisterer(reg)
}

// ProvideKafkaProducer creates the Kafka producer for aggregated error logs.
// It returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithClientID(serviceName),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideScorer creates the scoring service client.
func ProvideScorer(cfg *config.Config) service.DemandScorer {
	return scoring.NewClient(cfg.Scoring.BaseURL)
}

// ProvideDemandPredictor creates the prediction use case.
func ProvideDemandPredictor(scorer service.DemandScorer, m service.Metrics, l *applogger.Logger) *usecase.DemandPredictor {
	return usecase.NewDemandPredictor(scorer, m, l)
}

// ProvideLimiter picks the rate limiter backend. It returns nil when rate
// limiting is disabled.
func ProvideLimiter(cfg *config.Config) middleware.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if cfg.RateLimit.Backend == "redis" {
		return ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Limit:    cfg.RateLimit.Limit,
			Window:   cfg.RateLimit.Window,
		})
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideDemandHandler creates the gateway HTTP handler.
func ProvideDemandHandler(cfg *config.Config, l *applogger.Logger, p *usecase.DemandPredictor, lim middleware.Limiter) *api.DemandEchoHandler {
	return api.NewDemandEchoHandler(l, p, lim, cfg.Scoring.FanOut, api.EachBudget(cfg.Server.WriteTimeout))
}

// ProvideHTTPServer creates the echo server for the gateway.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, reg *prometheus.Registry, h *api.DemandEchoHandler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithTrustedProxies(cfg.Server.TrustedProxies),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg, cfg.Server.SlowThreshold))
	}
	return xhttp.NewServer(h, opts...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ProvideApp creates the application server and attaches optional
// infrastructure: the Kafka log collector and limiter housekeeping.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	producer *pkgkafka.Producer,
	lim middleware.Limiter,
) *server.App {
	app := server.New(cfg, l, srv)

	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Kafka.Collector.Interval,
			CountThreshold: cfg.Kafka.Collector.CountThreshold,
			Topic:          cfg.Kafka.Topic,
			Service:        serviceName,
			Publisher:      producer,
		})
		app.OnClose("kafka producer", producer)
		app.OnClose("log collector", closerFunc(func() error {
			l.RemoveCollector()
			return nil
		}))
	}

	switch v := lim.(type) {
	case *ratelimit.Limiter:
		app.Go(func(ctx context.Context) { v.Run(ctx, time.Minute) })
	case *ratelimit.RedisLimiter:
		app.OnClose("redis limiter", v)
	}
	return app
}
