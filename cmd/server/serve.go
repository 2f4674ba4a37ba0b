package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"concert-ticketing/internal/cache"
	"concert-ticketing/internal/config"
	"concert-ticketing/internal/database"
	"concert-ticketing/internal/events"
	"concert-ticketing/internal/handlers"
	"concert-ticketing/internal/jobs"
	"concert-ticketing/internal/middleware"
	"concert-ticketing/internal/observability"
	"concert-ticketing/internal/repositories"
	"concert-ticketing/internal/services"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving", Value: true},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, loadedConfig(c), c.Bool("migrate"))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, migrateFirst bool) error {
	shutdownTracer, err := observability.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, cfg.Server.Env)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to flush traces")
		}
	}()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Database connection established")

	if migrateFirst {
		if err := migrateUp(db); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cache.Config{
		Endpoint: cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()
	store := cache.NewStore(redisClient)

	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer publisher.Close()

	users := repositories.NewUserRepository(db)
	concerts := repositories.NewCachedConcertRepository(repositories.NewConcertRepository(db), store)
	carts := repositories.NewCartRepository(store)
	tickets := repositories.NewTicketRepository(db)
	orders := repositories.NewOrderRepository(db)

	var purchaser services.PurchaseExecutor
	if cfg.Checkout.Atomic {
		purchaser = services.NewLedgerPurchaser(db, tickets, orders, carts)
	} else {
		purchaser = services.NewSequentialPurchaser(tickets, orders, carts, cfg.Checkout.MaxTicketsPerPurchase)
	}
	checkout := services.NewCheckoutService(
		carts,
		services.NewCappedAvailability(cfg.Checkout.MaxTicketsPerPurchase),
		purchaser,
		services.WithCheckoutLock(store, cfg.Checkout.LockTTL),
		services.WithEventPublisher(publisher),
	)

	var limiter *middleware.RateLimiter
	if cfg.Checkout.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Checkout.RateLimit, cfg.Checkout.RateLimitWindow)
		defer limiter.Stop()
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.AllowedOrigins

	router := handlers.NewRouter(handlers.Router{
		Users:    handlers.NewUserHandler(users),
		Carts:    handlers.NewCartHandler(carts, concerts, cfg.Checkout.MaxTicketsPerPurchase),
		Orders:   handlers.NewOrderHandler(users, orders, checkout),
		Tickets:  handlers.NewTicketHandler(tickets),
		Concerts: handlers.NewConcertHandler(concerts),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": db,
			"redis":    handlers.PingFunc(store.Ping),
		}),
		CORS:            cors,
		CheckoutLimiter: limiter,
	})

	scheduler := jobs.NewScheduler()
	if cfg.Cleanup.Enabled {
		job, err := newCleanupJob(db, cfg.Cleanup)
		if err != nil {
			return err
		}
		if err := scheduler.Register(cfg.Cleanup.Schedule, job); err != nil {
			return err
		}
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server did not shut down cleanly")
		}
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.WithError(err).Warn("Scheduled jobs did not finish in time")
		}
		return nil
	})

	return g.Wait()
}

type eventPublisher interface {
	services.EventPublisher
	Close() error
}

func newPublisher(cfg config.EventsConfig) (eventPublisher, error) {
	if cfg.RabbitURL == "" {
		log.Info("RABBIT_URL not set, order events disabled")
		return events.NoopPublisher{}, nil
	}
	return events.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
}

func newCleanupJob(db *database.DB, cfg config.CleanupConfig) (*jobs.CleanupJob, error) {
	return jobs.NewCleanupJob(db, jobs.CleanupConfig{
		BatchSize:        cfg.BatchSize,
		ThresholdMinutes: cfg.ThresholdMinutes,
		Tables:           cfg.Tables,
	})
}
