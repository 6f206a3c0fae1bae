package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aq2208/gorder-cart/configs"
	"github.com/aq2208/gorder-cart/internal/adapter/cache"
	"github.com/aq2208/gorder-cart/internal/adapter/http"
	"github.com/aq2208/gorder-cart/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-cart/internal/adapter/kafka"
	"github.com/aq2208/gorder-cart/internal/adapter/observ"
	"github.com/aq2208/gorder-cart/internal/adapter/queue"
	"github.com/aq2208/gorder-cart/internal/adapter/repo"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/aq2208/gorder-cart/internal/security"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine

	catalogs *usecase.CatalogHolder
	watcher  *usecase.HoursWatcher
	workers  []func(ctx context.Context)
	log      *slog.Logger
}

// Start launches the background pieces: the first catalog load, the store
// hours watcher and any configured consumers. They stop with ctx.
func (a *App) Start(ctx context.Context) {
	go func() {
		if err := <-a.catalogs.LoadAsync(ctx); err != nil {
			a.log.Error("initial catalog load failed; menu stays empty until reload", "err", err)
		}
	}()
	a.watcher.Start(ctx)
	for _, w := range a.workers {
		go w(ctx)
	}
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(logging.Options{
		Component: cfg.App.Name,
		FilePath:  cfg.App.LogFile,
		Level:     cfg.App.LogLevel,
	})
	metrics := observ.NewMetrics(prometheus.DefaultRegisterer)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	hours, err := cfg.Hours()
	if err != nil {
		return fail(err)
	}

	// init database (optional: catalog source and handoff log)
	var db *sql.DB
	if cfg.MySQL.DSN != "" {
		db, err = openMySQL(cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = db.Close() })
	}

	// init redis
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		switch {
		case err != nil && cfg.Storage.Driver == "redis":
			_ = rdb.Close()
			return fail(fmt.Errorf("redis ping: %w", err))
		case err != nil:
			logger.Warn("redis unreachable; checkout idempotency disabled", "addr", cfg.Redis.Addr, "err", err)
			_ = rdb.Close()
			rdb = nil
		default:
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	// catalog
	var src usecase.CatalogSource
	switch cfg.Catalog.Source {
	case "mysql":
		src = repo.NewMySQLCatalogRepo(db)
	default:
		src = repo.NewFileCatalogSource(cfg.Catalog.Path)
	}
	catalogs := usecase.NewCatalogHolder(src, metrics, cfg.Catalog.Timeout)

	// cart snapshots
	var store usecase.CartStore
	switch cfg.Storage.Driver {
	case "redis":
		store = cache.NewRedisCartStore(rdb, cfg.Storage.TTL)
	default:
		fs, err := cache.NewFileCartStore(cfg.Storage.Dir)
		if err != nil {
			return fail(err)
		}
		store = fs
	}

	var idem usecase.IdempotencyStore
	if rdb != nil {
		idem = cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	}

	carts, err := usecase.NewCartService(catalogs, store, metrics, usecase.CartServiceConfig{
		Hours:        hours,
		DeliveryRule: cfg.DeliveryRule(),
		SessionCache: cfg.Storage.SessionCache,
		StoreTimeout: cfg.Storage.Timeout,
	})
	if err != nil {
		return fail(err)
	}

	a := &App{catalogs: catalogs, log: logger}

	// handoff publishers
	var pubs usecase.Publishers
	if db != nil {
		pubs = append(pubs, repo.NewMySQLHandoffLog(db))
	}
	if cfg.Rabbit.URL != "" {
		conn, err := amqp091.Dial(cfg.Rabbit.URL)
		if err != nil {
			return fail(fmt.Errorf("rabbitmq dial: %w", err))
		}
		closers = append(closers, func() { _ = conn.Close() })

		ch, err := conn.Channel()
		if err != nil {
			return fail(fmt.Errorf("rabbitmq channel: %w", err))
		}
		producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey)
		if err != nil {
			return fail(err)
		}
		pubs = append(pubs, producer)

		if cfg.Rabbit.ReloadQueue != "" {
			w, err := setupReloadQueue(conn, cfg, catalogs)
			if err != nil {
				return fail(err)
			}
			a.workers = append(a.workers, w)
		}
	}

	// register kafka-listener
	if len(cfg.Kafka.Brokers) > 0 {
		grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
		if err != nil {
			return fail(fmt.Errorf("kafka group: %w", err))
		}
		closers = append(closers, func() { _ = grp.Close() })
		consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, catalogs.OnCatalogPublished)
		a.workers = append(a.workers, func(ctx context.Context) {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("kafka consumer stopped", "err", err)
			}
		})
	}

	fallback := cfg.FallbackContact()
	checkout := usecase.NewCheckout(carts, idem, pubs, cfg.App.Brand, fallback.WhatsApp)
	front := usecase.NewStorefront(catalogs, cfg.App.Brand, fallback)
	a.watcher = usecase.NewHoursWatcher(hours, metrics)
	closers = append(closers, a.watcher.Stop)

	// init handlers + routers + middleware
	a.Router = http.NewRouter(http.Handlers{
		Cart:       http.NewCartHandler(carts),
		Checkout:   http.NewCheckoutHandler(checkout),
		Storefront: http.NewStorefrontHandler(front, a.watcher),
		Admin:      http.NewAdminHandler(catalogs),
		Token: http.NewTokenHandler(http.TokenConfig{
			Secret:   cfg.Security.JWTSecret,
			Issuer:   cfg.Security.Issuer,
			Audience: cfg.Security.Audience,
			TTL:      cfg.Security.TTL,
		}, security.DefaultClients),
		Authz: middleware.NewAuthz(middleware.AuthConfig{
			Secret:   cfg.Security.JWTSecret,
			Issuer:   cfg.Security.Issuer,
			Audience: cfg.Security.Audience,
		}),
	}, logger)

	logger.Info("cart-api: wired",
		"storage", cfg.Storage.Driver,
		"catalog", cfg.Catalog.Source,
		"publishers", len(pubs),
		"idempotency", idem != nil,
	)
	return a, cleanup, nil
}

func openMySQL(cfg configs.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// setupReloadQueue binds a queue to catalog.published on the order exchange
// so a CMS without Kafka can still trigger reloads.
func setupReloadQueue(conn *amqp091.Connection, cfg configs.Config, catalogs *usecase.CatalogHolder) (func(ctx context.Context), error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Rabbit.ReloadQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", cfg.Rabbit.ReloadQueue, err)
	}
	if err := ch.QueueBind(cfg.Rabbit.ReloadQueue, "catalog.published", cfg.Rabbit.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.Rabbit.ReloadQueue, err)
	}

	router := queue.NewRouter(ch, queue.WithPrefetch(1), queue.WithRequeue(false))
	router.Register(cfg.Rabbit.ReloadQueue, queue.JSONHandler[usecase.CatalogPublishedMsg]{HandleFunc: catalogs.OnCatalogPublished})

	return func(ctx context.Context) {
		if err := router.Start(ctx); err != nil {
			logging.New("rmq-router").Error("reload consumer failed to start", "err", err)
			return
		}
		router.Wait()
	}, nil
}
