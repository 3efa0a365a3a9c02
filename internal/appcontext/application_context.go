package appcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/rs/zerolog"
)

type ApplicationContext struct {
	Cf              *config.Config
	Logger          *zerolog.Logger
	Storage         storage.Storage
	redisStorage    *storage.RedisStorage
	Catalog         *catalog.Catalog
	Calculator      pricing.Calculator
	Promos          pricing.PromoTable
	CartService     service.ICartService
	OrderService    service.IOrderService
	CheckoutService service.ICheckoutService
	CheckoutLimiter ratelimit.Limiter
	TrackLimiter    ratelimit.Limiter
}

func NewApplicationContext(ctx context.Context, cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	if cf == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
		Promos: pricing.DefaultPromoTable(),
	}

	if err := app.Init(ctx); err != nil {
		_ = app.Shutdown(context.Background())
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"storage", app.setUpStorage},
		{"catalog", app.setUpCatalog},
		{"pricing", app.setUpCalculator},
		{"cart service", app.setUpCartService},
		{"order service", app.setUpOrderService},
		{"checkout service", app.setUpCheckoutService},
		{"rate limiter", app.setUpRateLimiters},
	}
	for _, step := range steps {
		app.Logger.Debug().Msgf("Start setup %s", step.name)
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("setup %s: %w", step.name, err)
		}
		app.Logger.Debug().Msgf("Finish setup %s", step.name)
	}
	return nil
}

func (app *ApplicationContext) setUpStorage(ctx context.Context) error {
	sc := app.Cf.Storage
	switch sc.Driver {
	case config.StorageDriverMemory:
		app.Storage = storage.NewMemoryStorage()
	case config.StorageDriverFile:
		fs, err := storage.NewFileStorage(sc.Dir)
		if err != nil {
			return err
		}
		app.Storage = fs
	case config.StorageDriverRedis:
		client := storage.NewRedisClient(sc.Redis.Addr,
			storage.WithPassword(sc.Redis.Password),
			storage.WithDB(sc.Redis.DB),
		)
		rs := storage.NewRedisStorage(client, sc.Redis.Prefix)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return fmt.Errorf("redis %s: %w", sc.Redis.Addr, err)
		}
		app.redisStorage = rs
		app.Storage = rs
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidStorageDriver, sc.Driver)
	}
	app.Logger.Info().Str("driver", sc.Driver).Msg("storage ready")
	return nil
}

// Path 為空時使用內嵌目錄
func (app *ApplicationContext) setUpCatalog(ctx context.Context) error {
	if app.Cf.Catalog.Path == "" {
		app.Catalog = catalog.Default()
		return nil
	}
	c, err := catalog.LoadFile(app.Cf.Catalog.Path)
	if err != nil {
		return err
	}
	app.Catalog = c
	return nil
}

func (app *ApplicationContext) setUpCalculator(ctx context.Context) error {
	threshold, err := app.Cf.Pricing.Threshold()
	if err != nil {
		return err
	}
	cost, err := app.Cf.Pricing.Cost()
	if err != nil {
		return err
	}
	app.Calculator = pricing.NewCalculator(threshold, cost)
	return nil
}

func (app *ApplicationContext) setUpCartService(ctx context.Context) error {
	app.CartService = service.NewCartService(ctx, app.Storage, app.Logger)
	return nil
}

func (app *ApplicationContext) setUpOrderService(ctx context.Context) error {
	var opts []service.OrderServiceOption
	if !app.Cf.Order.StrictTransitions {
		opts = append(opts, service.WithPermissiveTransitions())
	}
	app.OrderService = service.NewOrderService(ctx, app.Storage, app.Calculator, app.Logger, opts...)
	return nil
}

func (app *ApplicationContext) setUpCheckoutService(ctx context.Context) error {
	app.CheckoutService = service.NewCheckoutService(app.CartService, app.OrderService, app.Calculator, app.Cf.Checkout.SimulatedDelay, app.Logger)
	return nil
}

// redis storage 時 bucket 放在 redis，多個 instance 共用
func (app *ApplicationContext) setUpRateLimiters(ctx context.Context) error {
	rc := app.Cf.RateLimit
	if !rc.Enabled {
		app.Logger.Info().Msg("rate limit disabled")
		return nil
	}

	newLimiter := func(name string, lc config.LimitConfig) ratelimit.Limiter {
		cfg := ratelimit.LimiterConfig{Name: name, Capacity: lc.Capacity, RatePS: lc.RatePS}
		if app.redisStorage != nil {
			return ratelimit.NewRedisTokenBucket(app.redisStorage.Client(), app.redisStorage.Prefix(), cfg)
		}
		return ratelimit.NewMemoryTokenBucket(cfg)
	}
	app.CheckoutLimiter = newLimiter("checkout", rc.Checkout)
	app.TrackLimiter = newLimiter("track", rc.Track)

	limiterType := ratelimit.TokenBucket
	if app.redisStorage != nil {
		limiterType = ratelimit.RedisBucket
	}
	app.Logger.Info().Str("type", string(limiterType)).Msg("rate limiter ready")
	return nil
}

// RouterOptions 依設定掛載限流與 admin 路由
func (app *ApplicationContext) RouterOptions() []router.Option {
	var opts []router.Option
	if app.CheckoutLimiter != nil {
		opts = append(opts, router.WithCheckoutLimit(m.NewRateLimitMiddleware(app.CheckoutLimiter, app.Logger)))
	}
	if app.TrackLimiter != nil {
		opts = append(opts, router.WithTrackLimit(m.NewRateLimitMiddleware(app.TrackLimiter, app.Logger)))
	}
	if app.Cf.Server.Admin.Enabled {
		opts = append(opts, router.WithAdmin(app.Cf.Server.Admin.Token))
	}
	return opts
}

// NewServer 組出 HTTP handler
func (app *ApplicationContext) NewServer() *api.Server {
	return api.NewServer(
		handler.NewProductHandler(app.Catalog),
		handler.NewCartHandler(app.CartService, app.Catalog, app.Calculator, app.Promos),
		handler.NewCheckoutHandler(app.CheckoutService),
		handler.NewOrderHandler(app.OrderService),
	)
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		if app.redisStorage != nil {
			app.Logger.Info().Msg("Closing redis connection...")
			done <- app.redisStorage.Close()
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		app.Logger.Info().Msg("Application shutdown complete")
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
