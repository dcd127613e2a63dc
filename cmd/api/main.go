package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	infracache "github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cloudinary"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/internal/interfaces/ws"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Límite de body para subir varios adjuntos en un solo request.
const bodyLimit = 20 * 1024 * 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	version, err := postgres.Migrate(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Uint("schema_version", version).Msg("migraciones al día")

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	entryRepo := postgres.NewStockEntryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.LockTimeout)

	// Caché de productos opcional: sin REDIS_ADDR queda deshabilitada.
	redisClient, err := infracache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, caché deshabilitada")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	productCache := infracache.NewProductCache(redisClient, "", cfg.Redis.TTL, log.Component("cache"))

	assetStore := cloudinary.NewStore(cloudinary.Config{
		CloudName: cfg.Assets.CloudName,
		APIKey:    cfg.Assets.APIKey,
		APISecret: cfg.Assets.APISecret,
		Timeout:   cfg.Assets.Timeout,
	})
	if !assetStore.Configured() {
		log.Warn().Msg("credenciales de Cloudinary no configuradas: subidas y borrados de assets fallarán")
	}
	purger := assets.NewPurger(assetStore, cfg.Assets.Timeout, cfg.Assets.MaxConcurrency, log.Component("assets"))

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := ws.NewHub(log.Component("ws"))
	go hub.Run(hubCtx)

	engine := stock.NewEngine(txRunner, entryRepo, productRepo, stock.EngineDeps{
		Purger:      purger,
		Cache:       productCache,
		Events:      hub,
		Logger:      log.Component("stock"),
		MaxAttempts: cfg.Stock.MaxAttempts,
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: catalog.NewCategoryUseCase(categoryRepo, productRepo),
		ProductUC:  catalog.NewProductUseCase(txRunner, productRepo, productCache),
		Cascade:    catalog.NewCascadeCoordinator(txRunner, categoryRepo, productRepo, entryRepo, purger, productCache, log.Component("cascade")),
		Reorder:    catalog.NewReorderUseCase(txRunner, productCache),
		Engine:     engine,
		Report:     infrapdf.NewLedgerReportGenerator(),
		AssetsUC:   assets.NewUseCase(assetStore),
		Hub:        hub,
		JWTSecret:  cfg.JWT.Secret,
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
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
