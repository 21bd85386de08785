package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/config"
	"github.com/aipreacher/backend/internal/handler"
	"github.com/aipreacher/backend/internal/handler/history"
	"github.com/aipreacher/backend/internal/handler/sessions"
	"github.com/aipreacher/backend/internal/handler/users"
	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/service/ai"
	"github.com/aipreacher/backend/internal/service/chat"
	"github.com/aipreacher/backend/internal/service/pastor"
	"github.com/aipreacher/backend/internal/service/scripture"
	"github.com/aipreacher/backend/internal/store/memory"
	"github.com/aipreacher/backend/internal/store/postgres"
)

// backend is the storage surface shared by the memory and Postgres stores.
type backend interface {
	users.Repository
	sessions.Repository
	history.Repository
	pastor.UserDirectory
	pastor.SessionRegistry
	pastor.HistoryLog
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	configureLogging(cfg.Log)

	repo, denoms, closeRepo, err := openBackend(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open storage")
	}
	defer closeRepo()

	var generator ai.Generator
	if cfg.AI.Enabled() {
		generator, err = ai.NewGenerator(ctx, cfg.AI)
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize generator, chat will answer 503")
			generator = ai.Unavailable{Reason: err.Error()}
		} else {
			logrus.WithField("provider", cfg.AI.Provider).Info("generator initialized")
		}
	} else {
		logrus.WithField("provider", cfg.AI.Provider).Warn("model credentials not configured, chat will answer 503")
		generator = ai.Unavailable{Reason: "model credentials not configured"}
	}

	live := chat.NewStore(chat.Options{
		TTL:           cfg.Session.TTL,
		HistoryCap:    cfg.Session.HistoryCap,
		SweepSchedule: cfg.Session.SweepSchedule,
	})
	if err := live.Start(); err != nil {
		logrus.WithError(err).Fatal("failed to schedule session sweep")
	}
	defer live.Stop()

	pastorSvc := pastor.NewService(repo, repo, repo, live, generator, pastor.Options{
		ContextWindow:  cfg.Session.ContextWindow,
		RehydrateLimit: cfg.Session.RehydrateLimit,
	})

	router := handler.NewRouter(handler.Dependencies{
		Repos: handler.Repositories{
			Users:         repo,
			Sessions:      repo,
			History:       repo,
			Denominations: denoms,
		},
		Pastor:      pastorSvc,
		Scripture:   scripture.NewService(cfg.Scripture.Dir),
		CORSOrigins: cfg.Server.CORSAllowOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

// openBackend uses Postgres when a URL is configured and process memory
// otherwise.
func openBackend(ctx context.Context, dbCfg config.DatabaseConfig) (backend, denomination.Store, func(), error) {
	if dbCfg.URL == "" {
		logrus.Warn("[db] DATABASE_URL not set, using in-memory storage")
		denoms := denomination.NewMemoryStore(denomination.Seed())
		return memory.New(denoms), denoms, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, dbCfg.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	pgStore := postgres.New(pool)

	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := pgStore.EnsureSchema(schemaCtx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	logrus.Info("[db] connected to postgres")
	return pgStore, pgStore, pool.Close, nil
}

func configureLogging(logCfg config.LogConfig) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(logCfg.Level)
	if err != nil {
		logrus.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", logCfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.Infof("AI Preacher backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
