package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linonon/aibookmarks/internal/config"
	"github.com/linonon/aibookmarks/internal/drift"
	"github.com/linonon/aibookmarks/internal/httpserver"
	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/redis"
	"github.com/linonon/aibookmarks/internal/scheduler"
	"github.com/linonon/aibookmarks/internal/store"
	"github.com/linonon/aibookmarks/internal/store/jsonfile"
	redisstore "github.com/linonon/aibookmarks/internal/store/redis"
	"github.com/linonon/aibookmarks/internal/tools"
	"github.com/linonon/aibookmarks/internal/version"
	"github.com/linonon/aibookmarks/internal/workspace"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	workspaces  *workspace.Registry

	// ctx bounds background work of every workspace, including ones opened
	// lazily by requests.
	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	loggerClient.Debug("configuration loaded", logger.Any("config", cfg.Redacted()))

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{cfg: cfg, logger: loggerClient, ctx: ctx, cancel: cancel}

	if cfg.Storage == config.StorageRedis {
		// Fail fast when the backend is down.
		client, err := redis.Connect(ctx, cfg.Redis, loggerClient)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
	}

	a.workspaces, err = workspace.NewRegistry(cfg.Workspace, a.openWorkspace, loggerClient)
	if err != nil {
		a.closeRedis()
		cancel()
		return nil, err
	}

	registry := tools.NewRegistry(a.workspaces, loggerClient)
	tools.RegisterDefaults(registry)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		Storage:        cfg.Storage,
		AllowedHosts:   cfg.AllowedHosts,
		RequestTimeout: cfg.RequestTimeout,
		Workspaces:     a.workspaces,
		Tools:          registry,
	}
	a.server = httpserver.New(cfg.ListenAddr, d)

	return a, nil
}

// openWorkspace builds the store, drift handler and reloader for root.
func (a *App) openWorkspace(ctx context.Context, root string) (*workspace.Workspace, error) {
	log := a.logger.With(logger.String("workspace", root))

	var (
		persister store.Persister
		file      string
	)
	switch a.cfg.Storage {
	case config.StorageRedis:
		persister = redisstore.NewPersister(a.redisClient, root)
	default:
		jf := jsonfile.New(root, a.cfg.StoreFile)
		persister, file = jf, jf.Path()
	}

	s := store.New(root, persister, log)
	if err := s.Load(ctx); err != nil {
		// The default store stays in memory; the next save rewrites the document.
		log.Warn("failed to load bookmark store, starting empty",
			logger.String("location", persister.Location()),
			logger.Error(err))
	}

	trigger := make(chan struct{}, 1)
	watch := a.cfg.Watch && file != ""
	reloader := scheduler.NewStoreReloader(s, file, watch, a.cfg.WatchSettle, log, trigger)
	if err := reloader.Start(a.ctx); err != nil {
		return nil, fmt.Errorf("failed to start store reloader: %w", err)
	}

	snap := s.Snapshot()
	log.Info("bookmark store loaded",
		logger.String("location", persister.Location()),
		logger.Int("groups", len(snap.Groups)),
		logger.Int("bookmarks", snap.BookmarkCount()),
		logger.Bool("watch", watch))

	return &workspace.Workspace{
		Root:          root,
		Store:         s,
		Drift:         drift.New(s, nil, log),
		Reloader:      reloader,
		ReloadTrigger: trigger,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("Starting %s on %s", version.String(), a.cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the default workspace up front so readiness reflects it.
	if _, err := a.workspaces.Default(ctx); err != nil {
		a.shutdownBackground()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.shutdownBackground()
	if runErr != nil {
		return runErr
	}

	a.logger.Info("aibookmarks stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

// shutdownBackground stops every workspace reloader and closes Redis.
func (a *App) shutdownBackground() {
	a.workspaces.Close()
	a.cancel()
	a.closeRedis()
}

func (a *App) closeRedis() {
	if a.redisClient == nil {
		return
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Warn("failed to close redis", logger.Error(err))
		return
	}
	a.logger.Info("Redis closed cleanly")
}
