package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/clock"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/fixtures"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/sla"
	"github.com/spec-kit/ticket-dashboard/internal/ticketid"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("ticket-dashboard: %v", err)
	}
}

func run() error {
	var (
		envFile   string
		seedFile  string
		sweepOnce bool
	)
	flagSet := pflag.NewFlagSet("ticket-dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	flagSet.StringVar(&seedFile, "seed", "", "fixtures YAML to seed roster, users and tickets (overrides SEED_FILE)")
	flagSet.BoolVar(&sweepOnce, "sweep-once", false, "run one maintenance sweep, log the report and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if seedFile != "" {
		cfg.Seed.File = seedFile
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	seed, err := fixtures.Load(cfg.Seed.File)
	if err != nil {
		return err
	}

	roster, err := buildRoster(ctx, pg, seed, logger)
	if err != nil {
		return err
	}
	users := repository.NewMemoryUserRepository(seed.Users...)

	policy := sla.Policy{
		High:       cfg.SLA.High,
		Medium:     cfg.SLA.Medium,
		Low:        cfg.SLA.Low,
		Inactivity: cfg.SLA.Inactivity,
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	store := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repository.NewMemoryTicketRepository(),
		CommentRepo: repository.NewMemoryCommentRepository(),
		IDs:         ticketid.NewGenerator(cfg.Tickets.IDPrefix),
		SLA:         sla.NewEvaluator(policy),
		Dispatcher:  dispatcher,
		Clock:       clock.Real(),
		Logger:      logger.Named("store"),
		Metrics:     metrics,
	})
	if err := store.Import(ctx, seed.Tickets); err != nil {
		return fmt.Errorf("import seed tickets: %w", err)
	}
	logger.Info("seed loaded",
		zap.Int("team", len(roster.List())),
		zap.Int("users", len(seed.Users)),
		zap.Int("tickets", len(seed.Tickets)))

	notifier := service.NewNotificationService(dispatcher, logger.Named("notify"), cfg.Notification)
	worker.StartNotificationWorker(notifier, logger)

	var locker worker.Locker
	if redis != nil {
		locker = redis
	}
	maintenance, err := worker.NewMaintenanceWorker(cfg.Maintenance, store, locker, logger)
	if err != nil {
		return err
	}

	if sweepOnce {
		report, err := maintenance.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("maintenance sweep: %w", err)
		}
		logger.Info("maintenance sweep complete",
			zap.Bool("skipped", report.Skipped),
			zap.Strings("breached", report.Breached),
			zap.Strings("auto_closed", report.AutoClosed))
		return nil
	}

	dashboard := service.NewDashboardService(service.DashboardDependencies{
		Store:  store,
		Perms:  auth.NewEvaluator(roster),
		Roster: roster,
		Logger: logger.Named("dashboard"),
	})
	sessions := service.NewSessionService(users, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()))

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(sessions, dashboard),
		Tickets:        handlers.NewTicketsHandler(dashboard),
		AuthMiddleware: auth.NewAuthMiddleware(sessions.TokenManager(), users),
		Metrics:        metrics,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if cfg.Maintenance.Enabled {
		g.Go(func() error { return maintenance.Start(gctx) })
	}
	return g.Wait()
}

// buildRoster serves the team from Postgres when configured, seeding the
// table from fixtures on first run, and from fixtures otherwise.
func buildRoster(ctx context.Context, pg *persistence.Postgres, seed *fixtures.Seed, logger *zap.Logger) (repository.TeamRoster, error) {
	if !pg.Enabled() {
		return repository.NewMemoryTeamRoster(seed.Team...), nil
	}
	roster := repository.NewPostgresTeamRoster(pg.PoolHandle())
	if err := roster.Seed(ctx, seed.Team); err != nil {
		return nil, err
	}
	n, err := roster.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("team roster loaded from postgres", zap.Int("members", n))
	return roster, nil
}
