// chessd runs the online match server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/logging"
	"github.com/lgbarn/chess-rules-go/internal/match"
	"github.com/lgbarn/chess-rules-go/internal/server"
)

const programVersion = "0.1.0"

const shutdownTimeout = 10 * time.Second

var (
	configFile = flag.String("config", "", "YAML configuration file")
	listenAddr = flag.String("addr", "", "Listen address (overrides config)")
	origins    = flag.String("origins", "", "Comma-separated websocket origin patterns")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("chessd version %s\n", programVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chessd: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Log.Options()); err != nil {
		return pkgerrors.WithStack(err)
	}
	logger := logging.L()
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue, closeQueue, err := newQueue(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeQueue()

	hub := server.NewHub(logger)
	svc := match.NewService(queue, hub,
		match.WithLogger(logger),
		match.WithAutoPromotion(cfg.Engine.AutoPromoteToQueen),
		match.WithEngineOptions(engine.WithCheckmateCueDelay(cfg.Engine.CheckmateCueDelay)),
	)
	srv := server.New(svc, hub,
		server.WithLogger(logger),
		server.WithOriginPatterns(splitList(*origins)...),
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Server.Addr) }()
	logger.Info("chessd_started",
		zap.String("version", programVersion),
		zap.String("addr", cfg.Server.Addr),
		zap.String("queue", cfg.Server.QueueBackend),
	)

	select {
	case err := <-errc:
		return pkgerrors.WithStack(err)
	case <-ctx.Done():
	}

	logger.Info("chessd_stopping", zap.Int("running_matches", svc.Running()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		return pkgerrors.Wrap(err, "shutdown")
	}
	return <-errc
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return nil, pkgerrors.WithStack(err)
		}
	} else {
		cfg = config.NewConfig()
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return nil, pkgerrors.WithStack(err)
		}
	}
	if *listenAddr != "" {
		cfg.Server.Addr = *listenAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return cfg, nil
}

// newQueue builds the configured matchmaking queue and its cleanup.
func newQueue(ctx context.Context, cfg *config.Config) (match.Queue, func(), error) {
	if cfg.Server.QueueBackend != config.QueueRedis {
		return match.NewMemoryQueue(), func() {}, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q, err := match.DialRedisQueue(dialCtx, cfg.Redis.URL, cfg.Redis.QueueKey)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "matchmaking queue")
	}
	return q, func() { _ = q.Close() }, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
