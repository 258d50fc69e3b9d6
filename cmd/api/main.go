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

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/purchases"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/transfers"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	partRepo := postgres.NewPartRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewPartLocationRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := activity.NewRecorder(activityRepo, log)
	stockLedger := ledger.NewStockLedgerUseCase(txRunner, partRepo, locationRepo)

	partUC := catalog.NewPartUseCase(partRepo, stockRepo, recorder)
	locationUC := catalog.NewLocationUseCase(locationRepo, stockRepo, recorder)
	allocationUC := catalog.NewAllocationUseCase(txRunner, partRepo, locationRepo, stockRepo, recorder)
	saleUC := sales.NewSaleUseCase(txRunner, stockLedger, partRepo, locationRepo, saleRepo, recorder)
	purchaseUC := purchases.NewPurchaseUseCase(txRunner, stockLedger, partRepo, locationRepo, purchaseRepo, recorder)
	transferUC := transfers.NewTransferUseCase(stockLedger, transferRepo, partRepo, recorder)

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
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PartUC:       partUC,
		LocationUC:   locationUC,
		AllocationUC: allocationUC,
		SaleUC:       saleUC,
		PurchaseUC:   purchaseUC,
		TransferUC:   transferUC,
		Activity:     recorder,
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
