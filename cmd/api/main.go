package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/Retail-api/internal/application/analytics"
	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/billing"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/internal/infrastructure/cache"
	"github.com/jhoicas/Retail-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/locking"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Retail-api/internal/interfaces/http"
	"github.com/jhoicas/Retail-api/pkg/config"
	"github.com/jhoicas/Retail-api/pkg/logger"
	"github.com/jhoicas/Retail-api/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Document store: PostgreSQL (jsonb) o memoria para desarrollo.
	var (
		store         repository.DocumentStore
		analyticsRepo repository.AnalyticsRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		mem := memstore.New()
		store = mem
		analyticsRepo = docstore.NewAnalyticsRepository(mem)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		store = postgres.NewDocumentStore(pool)
		analyticsRepo = postgres.NewAnalyticsRepository(pool)
	}

	userRepo := docstore.NewUserRepository(store)
	clientRepo := docstore.NewClientRepository(store)
	invoiceRepo := docstore.NewInvoiceRepository(store)

	// Redis opcional: lock distribuido por factura y caché de series.
	// Sin Redis el lock es local al proceso y la serie se calcula en cada petición.
	var (
		locker      billing.InvoiceLocker = locking.NewKeyedLocker(cfg.Redis.LockWait)
		seriesCache appanalytics.Cache
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		locker = cache.NewInvoiceLocker(rdb, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		seriesCache = cache.New(rdb, cfg.App.Name)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: lock local por factura y sin caché de series")
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.CookieMaxAge)
	if err != nil {
		log.Fatal().Err(err).Msg("codec de sesión")
	}

	m := metrics.New("retail")
	authUC := auth.NewAuthUseCase(userRepo, clientRepo, codec, cfg.Session.TTL, logger.Component(log, "auth"))
	accountUC := usecase.NewAccountUseCase(userRepo, logger.Component(log, "accounts"))
	clientUC := usecase.NewClientUseCase(clientRepo)
	seriesUC := appanalytics.NewCategorySeriesUseCase(analyticsRepo, seriesCache, cfg.Redis.CacheTTL, logger.Component(log, "analytics"))
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, seriesUC, m, logger.Component(log, "billing"))
	paymentUC := billing.NewPaymentUseCase(invoiceRepo, locker, m, logger.Component(log, "billing"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		AccountUC: accountUC,
		ClientUC:  clientUC,
		InvoiceUC: invoiceUC,
		PaymentUC: paymentUC,
		SeriesUC:  seriesUC,
		Metrics:   m,
		Cookies: httpRouter.CookieConfig{
			Secure:               cfg.App.IsProduction(),
			AuthMaxAge:           cfg.Session.CookieMaxAge,
			SelectedClientMaxAge: cfg.Session.SelectedClientMaxAge,
		},
		LoginPerMinute: cfg.Limits.LoginPerMinute,
		ServiceName:    cfg.App.Name,
		Log:            logger.Component(log, "http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
