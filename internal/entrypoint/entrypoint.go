// Package entrypoint wires the application together and runs the HTTP
// server until it receives SIGINT or SIGTERM.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/lingo/internal/audit"
	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/config"
	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database"
	auditdb "github.com/mrlokans/lingo/internal/database/audit"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/database/users"
	http_controllers "github.com/mrlokans/lingo/internal/http"
	"github.com/mrlokans/lingo/internal/scheduler"
	"github.com/mrlokans/lingo/internal/services"
	"github.com/mrlokans/lingo/internal/tasks"
)

// App holds the wired components of a running server.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler http.Handler

	db          *database.Database
	library     *content.Store
	audit       *audit.Service
	limiter     *auth.RateLimiter
	taskClient  *tasks.Client
	maintenance *scheduler.MaintenanceScheduler
}

// Build opens the database, loads the content library and wires services,
// background jobs and the router. Close releases everything Build acquired.
func Build(cfg *config.Config, logger *zap.Logger, version string) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db
	logger.Info("database opened", zap.String("driver", string(db.Driver())))

	library, err := content.NewStore(cfg.Content.Dir, logger.Named("content"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	app.library = library
	stats := library.Current().Stats()
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("languages", stats.Languages),
		zap.Int("modules", stats.Modules),
		zap.Int("exercises", stats.Exercises))

	app.audit = audit.NewService(auditdb.NewRepository(db.DB), logger.Named("audit"))
	library.SetReloadHook(app.audit.LogContentReload)

	usersRepo := users.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)

	var purges services.PurgeScheduler
	if cfg.Tasks.Enabled {
		if err := app.buildTasks(usersRepo); err != nil {
			app.Close()
			return nil, err
		}
		purges = app.taskClient
	} else {
		logger.Info("task queue disabled, deleted users are purged immediately")
	}

	userService := services.NewUserService(usersRepo, settingsRepo, purges, cfg.Tasks.PurgeDelay, app.audit, logger.Named("users"))
	app.limiter = auth.NewRateLimiter(auth.DefaultRateLimitConfig())

	routerCfg := http_controllers.RouterConfig{
		Logger:          logger.Named("http"),
		Database:        db,
		Library:         library,
		Version:         version,
		Users:           userService,
		Settings:        services.NewSettingsService(settingsRepo, library, app.audit),
		Progress:        services.NewProgressService(progressRepo, settingsRepo, library, app.audit),
		Events:          app.audit,
		Verifier:        auth.NewVerifier(cfg.Auth),
		InternalSecret:  cfg.Auth.InternalSecret,
		InternalLimiter: app.limiter,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		HSTS:            cfg.HTTP.HSTS,
	}
	if app.taskClient != nil && app.maintenance != nil {
		routerCfg.TaskClient = app.taskClient
		routerCfg.Maintenance = app.maintenance
	}
	app.Handler = http_controllers.NewRouter(routerCfg)

	return app, nil
}

func (a *App) buildTasks(usersRepo *users.Repository) error {
	cfg := a.Config
	logger := a.Logger.Named("tasks")

	mainPath := cfg.Database.Path
	if cfg.Database.Driver != config.DatabaseDriverSQLite {
		mainPath = ""
	}
	client, err := tasks.NewClient(tasks.DBPathFor(mainPath), tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize task queue: %w", err)
	}
	a.taskClient = client

	client.Register(
		tasks.NewPurgeUserQueue(usersRepo, a.audit, logger),
		tasks.NewPurgeDeletedUsersQueue(usersRepo, a.audit, logger),
		tasks.NewCleanupAuditEventsQueue(a.audit, logger),
	)

	a.maintenance = scheduler.NewMaintenanceScheduler(client, scheduler.Config{
		AuditCleanupCron:   cfg.Scheduler.AuditCleanupCron,
		PurgeSweepCron:     cfg.Scheduler.PurgeSweepCron,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		PurgeDelay:         cfg.Tasks.PurgeDelay,
	}, a.Logger.Named("scheduler"))
	return nil
}

// Start launches background work: task workers, the maintenance scheduler
// and the content watcher. Watcher errors are reported through g.
func (a *App) Start(ctx context.Context, g *errgroup.Group) error {
	if a.taskClient != nil {
		a.taskClient.Start(ctx)
	}

	if a.maintenance != nil && a.Config.Scheduler.Enabled {
		if err := a.maintenance.Start(ctx); err != nil {
			return fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	} else if a.Config.Scheduler.Enabled {
		a.Logger.Warn("maintenance scheduler needs the task queue, not starting")
	}

	if a.Config.Content.Watch {
		g.Go(func() error {
			return a.library.Watch(ctx, a.Config.Content.Debounce)
		})
	}
	return nil
}

// Shutdown stops background work, waiting at most until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.maintenance != nil {
		a.maintenance.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
	}
	if a.audit != nil {
		a.audit.Wait()
	}
}

// Close releases connections and goroutines owned by the app.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			a.Logger.Warn("error closing task client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("error closing database", zap.Error(err))
		}
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *zap.Logger, onShutdown func(context.Context)) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}
		return err
	})

	return g.Wait()
}

// Run starts the server and blocks until it stops.
func Run(cfg *config.Config, logger *zap.Logger, version string) error {
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("starting lingo", zap.String("version", version))

	app, err := Build(cfg, logger, version)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	if err := app.Start(gctx, g); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	g.Go(func() error {
		return Serve(gctx, srv, timeout, logger, app.Shutdown)
	})

	err = g.Wait()
	logger.Info("server exiting")
	return err
}
