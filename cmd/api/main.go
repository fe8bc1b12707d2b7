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

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
	infracache "github.com/jhoicas/retail-pos-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/retail-pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-pos-api/internal/interfaces/http"
	"github.com/jhoicas/retail-pos-api/pkg/config"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
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

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	stockRepo := postgres.NewChannelStockRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	serialRepo := postgres.NewSerialRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de lecturas de producto: REDIS_ADDR vacío lo desactiva.
	var productRepo repository.ProductRepository = postgres.NewProductRepository(pool)
	if cfg.Redis.Addr != "" {
		redisClient := infracache.NewRedisClient(cfg.Redis)
		productRepo = infracache.NewCachedProductRepository(
			productRepo, redisClient, time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de productos habilitado")
	}

	engine := inventory.NewAllocationEngine(stockRepo, batchRepo)
	restockUC := inventory.NewRestockUseCase(txRunner, productRepo)

	registry := billing.NewInProgressRegistry()
	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	billUC := billing.NewBillUseCase(registry, engine, productRepo, billRepo, serialRepo, receiptGen)
	checkoutUC := billing.NewCheckoutUseCase(txRunner, productRepo, serialRepo, stockRepo)

	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Retail POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CustomerUC: customerUC,
		RestockUC:  restockUC,
		Engine:     engine,
		BillUC:     billUC,
		CheckoutUC: checkoutUC,
		AuthUC:     authUC,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
