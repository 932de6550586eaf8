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

	"github.com/aerostock/aerostock-api/internal/application/auth"
	"github.com/aerostock/aerostock-api/internal/application/ledger"
	"github.com/aerostock/aerostock-api/internal/application/usecase"
	"github.com/aerostock/aerostock-api/internal/application/voucher"
	infrapdf "github.com/aerostock/aerostock-api/internal/infrastructure/pdf"
	"github.com/aerostock/aerostock-api/internal/infrastructure/postgres"
	httpRouter "github.com/aerostock/aerostock-api/internal/interfaces/http"
	"github.com/aerostock/aerostock-api/pkg/config"
	"github.com/aerostock/aerostock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	// Repos atados al pool (operaciones sueltas, fuera de tx)
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)

	// Motor de vales + ledger: cada transición corre en su propia tx
	ledgerUC := ledger.NewLedgerUseCase(postgres.NewLedgerTxRunner(pool))
	workflowUC := voucher.NewWorkflowUseCase(postgres.NewVoucherTxRunner(pool), ledgerUC)
	queryUC := voucher.NewQueryUseCase(voucherRepo)
	pdfUC := voucher.NewPDFUseCase(queryUC, itemRepo, infrapdf.NewMarotoPDFGenerator())

	itemUC := usecase.NewItemUseCase(itemRepo, voucherRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	maintenanceUC := usecase.NewMaintenanceUseCase(maintenanceRepo, itemRepo)
	dashboardUC := usecase.NewDashboardUseCase(dashboardRepo)

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
		Title:    "AeroStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ItemUC:        itemUC,
		UserUC:        userUC,
		MaintenanceUC: maintenanceUC,
		DashboardUC:   dashboardUC,
		WorkflowUC:    workflowUC,
		QueryUC:       queryUC,
		PDFUC:         pdfUC,
		JWTSecret:     cfg.JWT.Secret,
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
