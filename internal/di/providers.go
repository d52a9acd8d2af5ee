package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/internal/handler/api"
	"SignalPulse/internal/handler/ws"
	internalrepo "SignalPulse/internal/repository"
	svccache "SignalPulse/internal/service/cache"
	"SignalPulse/internal/services/correlation"
	"SignalPulse/internal/services/scoring"
	"SignalPulse/internal/services/signal"
	"SignalPulse/internal/services/stability"
	"SignalPulse/internal/usecase"
	pkgcache "SignalPulse/pkg/cache"
	pkgch "SignalPulse/pkg/clickhouse"
	"SignalPulse/pkg/config"
	xhttp "SignalPulse/pkg/http"
	pkgkafka "SignalPulse/pkg/kafka"
	"SignalPulse/pkg/logger"
	"SignalPulse/pkg/metrics"
	"SignalPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheBackend selects the decision cache backend. Redis when
// configured, otherwise in-process memory.
func ProvideCacheBackend(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	host, port := splitHostPort(cfg.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	// L1 memory in front of Redis; replicas still share via L2. Keep the
	// L1 copy much shorter than the decision TTL so replicas converge.
	return pkgcache.NewLayeredCache(rc,
		pkgcache.WithLayeredFillTTL(cfg.Decisions.CacheTTL/10),
	), nil
}

// ProvideDecisionCache wraps the backend with decision keys and TTL.
func ProvideDecisionCache(backend pkgcache.Service, cfg *config.Config) *svccache.DecisionCache {
	return svccache.NewDecisionCache(backend, cfg.Decisions.CacheTTL)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// journal is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideDecisionJournal creates the ClickHouse journal, or nil when
// ClickHouse is disabled.
func ProvideDecisionJournal(chClient *pkgch.Client, cfg *config.Config) (repository.DecisionJournal, error) {
	if chClient == nil {
		return nil, nil
	}

	journal := internalrepo.NewClickHouseJournal(chClient.DB(), cfg.ClickHouse.Database+".signal_decisions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := journal.Init(ctx); err != nil {
		return nil, fmt.Errorf("decision journal: %w", err)
	}
	return journal, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideBroadcaster creates the websocket decision broadcaster.
func ProvideBroadcaster(log *logger.Logger) *ws.Broadcaster {
	return ws.NewBroadcaster(log)
}

// ProvidePublishers assembles the decision egress fan-out. The
// broadcaster always participates; Kafka only when configured.
func ProvidePublishers(b *ws.Broadcaster, producer *pkgkafka.Producer, cfg *config.Config) []repository.Publisher {
	pubs := []repository.Publisher{b}
	if producer != nil {
		pubs = append(pubs, internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic))
	}
	return pubs
}

// ProvideAggregator creates the weighted factor aggregator.
func ProvideAggregator(cfg *config.Config, log *logger.Logger) domsvc.Aggregator {
	return scoring.NewWeightedAggregator(cfg, log)
}

// ProvideResolver creates the direction resolver.
func ProvideResolver(cfg *config.Config, log *logger.Logger) domsvc.DirectionResolver {
	return signal.NewResolver(cfg, log)
}

// ProvideCalibrator creates the probability calibrator.
func ProvideCalibrator(cfg *config.Config, log *logger.Logger) domsvc.ProbabilityCalibrator {
	return signal.NewCalibrator(cfg, log)
}

// ProvideStateStore creates the in-memory per-symbol stability store.
func ProvideStateStore() repository.StateStore {
	return stability.NewMemoryStore()
}

// ProvideStabilityGate creates the stability gate.
func ProvideStabilityGate(cfg *config.Config, log *logger.Logger, store repository.StateStore) domsvc.StabilityGate {
	return stability.NewService(cfg, log, store)
}

// ProvideCorrelationGuard creates the anchor correlation guard.
func ProvideCorrelationGuard(cfg *config.Config, log *logger.Logger) domsvc.CorrelationGuard {
	return correlation.NewGuard(cfg, log)
}

// ProvideEvaluator creates the signal evaluation use case.
func ProvideEvaluator(
	cfg *config.Config,
	log *logger.Logger,
	aggregator domsvc.Aggregator,
	resolver domsvc.DirectionResolver,
	calibrator domsvc.ProbabilityCalibrator,
	gate domsvc.StabilityGate,
	guard domsvc.CorrelationGuard,
	publishers []repository.Publisher,
	journal repository.DecisionJournal,
	decisions *svccache.DecisionCache,
	m repository.Metrics,
) *usecase.SignalEvaluator {
	return usecase.NewSignalEvaluator(cfg, log, aggregator, resolver, calibrator,
		gate, guard, publishers, journal, decisions, m)
}

// ProvideHTTPHandler creates the Echo handler for the engine API.
func ProvideHTTPHandler(
	cfg *config.Config,
	log *logger.Logger,
	evaluator *usecase.SignalEvaluator,
	broadcaster *ws.Broadcaster,
) xhttp.Handler {
	return api.NewDecisionsEchoHandler(cfg, log, evaluator, broadcaster)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	broadcaster *ws.Broadcaster,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheSvc pkgcache.Service,
) *server.App {
	return server.New(cfg, log, handler, broadcaster, producer, chClient, cacheSvc)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}
