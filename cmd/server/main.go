package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/typerace-backend/internal/config"
	"github.com/DoyleJ11/typerace-backend/internal/events"
	"github.com/DoyleJ11/typerace-backend/internal/history"
	"github.com/DoyleJ11/typerace-backend/internal/httpapi"
	"github.com/DoyleJ11/typerace-backend/internal/hub"
	"github.com/DoyleJ11/typerace-backend/internal/logging"
	"github.com/DoyleJ11/typerace-backend/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, lister, err := openHistory(cfg, logger.Named("history"))
	if err != nil {
		return err
	}
	publisher, err := openEvents(cfg, logger.Named("events"))
	if err != nil {
		return multierr.Append(err, recorder.Close())
	}
	// Flushes queued history and events once the hub has stopped producing.
	defer func() {
		err = multierr.Combine(err, recorder.Close(), publisher.Close())
	}()

	g, gctx := errgroup.WithContext(ctx)

	h, err := hub.NewHub(gctx, &hub.Config{
		Countdown:     cfg.Countdown,
		MatchDuration: cfg.MatchDuration,
		Recorder:      recorder,
		Publisher:     publisher,
		Logger:        logger.Named("hub"),
	})
	if err != nil {
		return fmt.Errorf("start hub: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub: h,
			WS: ws.Config{
				OutboxSize:     cfg.WSOutbox,
				PingInterval:   cfg.WSPingInterval,
				OriginPatterns: originPatterns(cfg.CORSOrigins),
				Logger:         logger.Named("ws"),
			},
			PublicURL:   cfg.PublicURL,
			CORSOrigins: cfg.CORSOrigins,
			History:     lister,
			Logger:      logger.Named("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("history", cfg.HistoryBackend))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	err = g.Wait()
	<-h.Done()
	return err
}

// openHistory returns the recorder the hub writes to and, when the backend
// can be read back, the lister for the HTTP routes.
func openHistory(cfg *config.Config, logger *zap.Logger) (history.Recorder, httpapi.MatchLister, error) {
	var store history.Store
	switch cfg.HistoryBackend {
	case config.HistoryPostgres:
		pg, err := history.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store = pg

	case config.HistoryRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		rs, err := history.NewRedis(&history.RedisConfig{RedisClient: client})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		store = rs

	default:
		return history.Nop{}, nil, nil
	}

	logger.Info("match history enabled", zap.String("backend", cfg.HistoryBackend))
	return history.NewQueue(store, history.DefaultQueueSize, logger), store, nil
}

func openEvents(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}, nil
	}
	k, err := events.NewKafka(&events.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	logger.Info("publishing match events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return k, nil
}

// originPatterns maps CORS origins to websocket host patterns. A wildcard
// disables the same-origin check.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		out = append(out, o)
	}
	return out
}
