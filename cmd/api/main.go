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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/analytics"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/application/visits"
	infrapdf "github.com/jhoicas/Clinica-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Clinica-api/internal/interfaces/http"
	"github.com/jhoicas/Clinica-api/pkg/config"
	"github.com/jhoicas/Clinica-api/pkg/logger"
)

func main() {
	// Los montos viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	patientRepo := postgres.NewPatientRepository(pool)
	medicineRepo := postgres.NewMedicineRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo)
	visitsUC := visits.NewRecorderUseCase(patientRepo, transactionRepo, visitRepo)
	patientUC := usecase.NewPatientUseCase(patientRepo, transactionRepo, visitRepo)
	medicineUC := usecase.NewMedicineUseCase(txRunner, medicineRepo, movementRepo, transactionRepo, ledgerUC)
	serviceUC := usecase.NewServiceUseCase(serviceRepo, transactionRepo)
	settingsUC := usecase.NewSettingsUseCase(settingRepo)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)

	createSaleUC := sales.NewCreateTransactionUseCase(
		txRunner, ledgerUC, visitsUC,
		patientRepo, serviceRepo, medicineRepo, transactionRepo,
	)
	saleStatusUC := sales.NewUpdateStatusUseCase(txRunner, ledgerUC, transactionRepo)

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := sales.NewReceiptUseCase(
		transactionRepo, patientRepo, serviceRepo, medicineRepo, settingRepo, receiptGenerator,
	)

	// Settings por defecto (solo claves ausentes; idempotente)
	if err := settingsUC.InitDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("inicializar settings")
	}

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
		Title:    "Clínica Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PatientUC:   patientUC,
		MedicineUC:  medicineUC,
		ServiceUC:   serviceUC,
		SettingsUC:  settingsUC,
		Ledger:      ledgerUC,
		VisitsUC:    visitsUC,
		CreateSale:  createSaleUC,
		SaleStatus:  saleStatusUC,
		Receipt:     receiptUC,
		DashboardUC: dashboardUC,
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
