// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/cjblain10/tx-sentiment-landscape/internal/adapter/social"
	"github.com/cjblain10/tx-sentiment-landscape/internal/adapter/storage"
	"github.com/cjblain10/tx-sentiment-landscape/internal/config"
	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
	"github.com/cjblain10/tx-sentiment-landscape/internal/server"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/aggregate"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/history"
	pulseService "github.com/cjblain10/tx-sentiment-landscape/internal/service/pulse"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/tagging"
)

func main() {
	// .env is optional
	godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Immutable lookup tables, loaded once
	tagger := tagging.NewTagger(tagging.DefaultConfig(tagging.Formula(cfg.Pulse.SentimentFormula)))
	aggregator := aggregate.NewAggregator(sentiment.Categories)
	builder := aggregate.NewBuilder(aggregator, sentiment.RegionLabels)
	generator := history.NewGenerator()

	store, db, err := initStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize snapshot store")
	}
	if db != nil {
		defer db.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to NATS")
		}
		defer natsConn.Close()
	}

	collector := initCollector(cfg.Collector, tagger, log)

	service := pulseService.NewService(
		collector,
		store,
		tagger,
		builder,
		generator,
		natsConn,
		pulseService.ServiceConfig{
			RefreshInterval: cfg.Pulse.RefreshInterval,
			EventsSubject:   cfg.Pulse.EventsSubject,
			DefaultDays:     cfg.Pulse.HistoryDays,
			MaxDays:         cfg.Pulse.HistoryMaxDays,
		},
		log,
	)

	service.Start(ctx)

	httpServer := server.NewServer(cfg.Server, natsConn, cfg.Pulse.EventsSubject, service, log)

	go func() {
		log.WithField("host", cfg.Server.Host).WithField("port", cfg.Server.Port).Info("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-shutdown
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	if err := service.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("pulse service shutdown error")
	}

	log.Info("shutdown complete")
}

// initStore selects the snapshot store backend.
func initStore(ctx context.Context, cfg config.Config) (sentiment.SnapshotStore, *pgxpool.Pool, error) {
	switch cfg.Pulse.CacheBackend {
	case "postgres":
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewSnapshotStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "none":
		return nil, nil, nil
	default:
		return storage.NewFileStore(cfg.Pulse.CachePath), nil, nil
	}
}

func initCollector(cfg config.CollectorConfig, tagger *tagging.Tagger, log *logger.Logger) sentiment.Collector {
	switch cfg.Platform {
	case "twitter":
		return social.NewTwitterCollector(social.TwitterConfig{
			BearerToken: cfg.TwitterBearer,
			MaxResults:  cfg.TwitterMaxResults,
			Timeout:     cfg.RequestTimeout,
		}, log)
	case "none":
		// Demo-only deployment
		return nil
	default:
		return social.NewRedditCollector(social.RedditConfig{
			Subreddits:   cfg.Subreddits,
			FetchLimit:   cfg.FetchLimit,
			Window:       cfg.Window,
			RequestDelay: cfg.RequestDelay,
			Timeout:      cfg.RequestTimeout,
		}, tagger, log)
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log *logger.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
