package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/analytics"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/application/visits"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PatientUC   *usecase.PatientUseCase
	MedicineUC  *usecase.MedicineUseCase
	ServiceUC   *usecase.ServiceUseCase
	SettingsUC  *usecase.SettingsUseCase
	Ledger      *inventory.LedgerUseCase
	VisitsUC    *visits.RecorderUseCase
	CreateSale  *sales.CreateTransactionUseCase
	SaleStatus  *sales.UpdateStatusUseCase
	Receipt     *sales.ReceiptUseCase
	DashboardUC *analytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Patients + visitas
	patients := api.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC, deps.VisitsUC)
	patients.Post("/", patientHandler.Create)
	patients.Get("/", patientHandler.List)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)
	patients.Post("/:id/visits", patientHandler.RecordVisit)
	patients.Get("/:id/visits", patientHandler.ListVisits)

	// Medicines (catálogo; el stock va por /inventory)
	medicines := api.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", medicineHandler.Delete)

	// Services
	services := api.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Post("/", serviceHandler.Create)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.GetByID)
	services.Put("/:id", serviceHandler.Update)
	services.Delete("/:id", serviceHandler.Delete)

	// Inventory (Ledger)
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/movements", inventoryHandler.CreateMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Put("/stock/:medicineId", inventoryHandler.AdjustStock)

	// Transactions (ventas)
	transactions := api.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.CreateSale, deps.SaleStatus, deps.Receipt)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Patch("/:id/status", transactionHandler.UpdateStatus)
	transactions.Patch("/:id/notes", transactionHandler.AddNotes)
	transactions.Get("/:id/receipt", transactionHandler.Receipt)

	// Settings
	settings := api.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.List)
	settings.Get("/:key", settingsHandler.Get)
	settings.Put("/:key", settingsHandler.Update)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
