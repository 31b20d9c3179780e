package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/port"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/internal/infrastructure/badgerstore"
	"github.com/bibbank/mt799-service/internal/infrastructure/config"
	"github.com/bibbank/mt799-service/internal/infrastructure/messaging"
	"github.com/bibbank/mt799-service/internal/infrastructure/metrics"
	infraPostgres "github.com/bibbank/mt799-service/internal/infrastructure/postgres"
	"github.com/bibbank/mt799-service/internal/infrastructure/postgres/migrations"
	grpcPresentation "github.com/bibbank/mt799-service/internal/presentation/grpc"
	"github.com/bibbank/mt799-service/internal/presentation/rest"
	"github.com/bibbank/mt799-service/internal/version"
	"github.com/bibbank/mt799-service/pkg/auth"
	pkgkafka "github.com/bibbank/mt799-service/pkg/kafka"
	"github.com/bibbank/mt799-service/pkg/observability"
	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

const serviceName = "mt799-service"

func main() {
	if err := run(); err != nil {
		slog.Error("mt799 service failed", "error", err)
		os.Exit(1)
	}
}

// storage bundles whichever backend STORE_DRIVER selects.
type storage struct {
	records port.MessageRecordRepository
	outbox  port.OutboxStore
	ping    rest.Check
	close   func()
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	info := version.Get()
	logger.Info("starting mt799 service",
		"version", info.Version,
		"commit", info.GitCommit,
		"store", cfg.StoreDriver,
		"validation_policy", cfg.Parser.ValidationPolicy,
		"segmentation_policy", cfg.Parser.SegmentationPolicy,
	)

	m, err := observability.InitMetrics()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(shutdownCtx)
	}()
	recorder, err := metrics.NewRecorder(m.Provider)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	parser, err := swiftmt.NewParserForPolicies(cfg.Parser.ValidationPolicy, cfg.Parser.SegmentationPolicy)
	if err != nil {
		return err
	}
	assembler := service.NewAssembler()

	ingestUC := usecase.NewIngestMessage(parser, assembler, store.records, recorder, logger)
	listUC := usecase.NewListMessages(store.records)
	validateUC := usecase.NewValidateMessage(parser, assembler)

	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled {
		jwtSvc, err = auth.NewJWTService(auth.JWTConfig{
			Secret:       cfg.Auth.Secret,
			PublicKeyPEM: cfg.Auth.PublicKey,
			Issuer:       cfg.Auth.Issuer,
			Expiration:   cfg.Auth.Expiration,
		})
		if err != nil {
			return fmt.Errorf("jwt: %w", err)
		}
	}

	errCh := make(chan error, 3)

	if cfg.KafkaEnabled() {
		shutdownKafka, err := startKafka(ctx, cfg, store.outbox, ingestUC, logger, errCh)
		if err != nil {
			return err
		}
		defer shutdownKafka()
	} else {
		logger.Info("kafka disabled, outbox entries stay unpublished")
	}

	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewMessageHandler(ingestUC, validateUC, listUC, logger),
		grpcPresentation.ServerConfig{
			Port:       cfg.GRPCPort,
			JWT:        jwtSvc,
			CertFile:   cfg.TLS.CertFile,
			KeyFile:    cfg.TLS.KeyFile,
			Reflection: true,
		},
		logger,
	)
	if err != nil {
		return err
	}

	router := rest.NewRouter(rest.RouterConfig{
		Messages: rest.NewMessageHandler(ingestUC, listUC, validateUC, int64(cfg.HTTP.MaxUploadBytes), logger),
		Health: rest.NewHealthHandler(serviceName, map[string]rest.Check{
			cfg.StoreDriver: store.ping,
		}, logger),
		Metrics:        m.Handler,
		JWT:            jwtSvc,
		RateLimit:      cfg.HTTP.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins(),
		Timeout:        cfg.HTTP.RequestTimeout,
		Logger:         logger,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort, "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = httpServer.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	grpcServer.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("mt799 service stopped")
	return nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StoreDriver {
	case config.StoreBadger:
		store, err := badgerstore.Open(cfg.BadgerPath, logger)
		if err != nil {
			return storage{}, err
		}
		logger.Info("opened badger store", "path", cfg.BadgerPath)
		return storage{
			records: badgerstore.NewMessageRecordRepository(store),
			outbox:  badgerstore.NewOutboxStore(store),
			ping:    func(context.Context) error { return store.Ping() },
			close: func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to close badger store", "error", err)
				}
			},
		}, nil

	default:
		pgCfg := cfg.Postgres()

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pgpkg.NewPool(connectCtx, pgCfg)
		if err != nil {
			return storage{}, err
		}
		logger.Info("connected to database", "database", pgCfg.Database)

		var schema fs.FS = migrations.FS
		if cfg.DB.MigrationsDir != "" {
			schema = os.DirFS(cfg.DB.MigrationsDir)
		}
		if err := pgpkg.RunMigrations(pgCfg.DSN(), schema); err != nil {
			pool.Close()
			return storage{}, err
		}

		return storage{
			records: infraPostgres.NewMessageRecordRepository(pool),
			outbox:  infraPostgres.NewOutboxStore(pool),
			ping:    func(ctx context.Context) error { return pgpkg.HealthCheck(ctx, pool) },
			close:   pool.Close,
		}, nil
	}
}

// startKafka runs the outbox relay and, when an ingest topic is set, the
// ingest consumer. The returned func stops both.
func startKafka(
	ctx context.Context,
	cfg config.Config,
	outbox port.OutboxStore,
	ingest messaging.Ingester,
	logger *slog.Logger,
	errCh chan<- error,
) (func(), error) {
	kafkaCfg := cfg.KafkaClient()

	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	relay := messaging.NewOutboxRelay(outbox,
		messaging.NewPublisher(producer, cfg.Kafka.EventsTopic, logger),
		cfg.Outbox.BatchSize, logger)
	if err := relay.Start(ctx, cfg.Outbox.Schedule); err != nil {
		_ = producer.Close()
		return nil, err
	}

	var consumer *pkgkafka.Consumer
	if cfg.Kafka.IngestTopic != "" {
		consumer, err = pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.IngestTopic, messaging.IngestHandler(ingest, logger), logger)
		if err != nil {
			relay.Stop()
			_ = producer.Close()
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	return func() {
		relay.Stop()
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("failed to close kafka consumer", "error", err)
			}
		}
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}, nil
}
