package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// MedicineUseCase
// ──────────────────────────────────────────────────────────────────────────────

func newMedicineUC(store *memory.Store) *usecase.MedicineUseCase {
	ledger := inventory.NewLedgerUseCase(store, store.StockMovements())
	return usecase.NewMedicineUseCase(store, store.Medicines(), store.StockMovements(), store.Transactions(), ledger)
}

// El stock inicial no se escribe directo: entra por el Ledger y deja un
// movimiento de entrada que lo documenta.
func TestMedicineCreate_StockInicialViaLedger(t *testing.T) {
	store := memory.NewStore()
	uc := newMedicineUC(store)

	medicine, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name:          "Paracetamol 500mg",
		Unit:          "tableta",
		Price:         decimal.NewFromInt(800),
		StockQuantity: 30,
		MinimumStock:  10,
	})

	require.NoError(t, err)
	assert.Equal(t, 30, medicine.StockQuantity)

	movs, err := store.StockMovements().List(medicine.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 30, movs[0].Quantity)
	assert.Equal(t, "stock inicial", movs[0].Notes)
}

func TestMedicineCreate_SinStockInicialSinMovimiento(t *testing.T) {
	store := memory.NewStore()
	uc := newMedicineUC(store)

	medicine, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name:  "Loratadina 10mg",
		Unit:  "tableta",
		Price: decimal.NewFromInt(500),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, medicine.StockQuantity)
	movs, err := store.StockMovements().List(medicine.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// Update nunca toca el stock, aunque el catálogo cambie entero.
func TestMedicineUpdate_NoTocaStock(t *testing.T) {
	store := memory.NewStore()
	uc := newMedicineUC(store)
	medicine, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name: "Omeprazol", Unit: "cápsula", Price: decimal.NewFromInt(900), StockQuantity: 12,
	})
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), medicine.ID, dto.UpdateMedicineRequest{
		Name: "Omeprazol 20mg", Unit: "cápsula", Price: decimal.NewFromInt(950), MinimumStock: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, "Omeprazol 20mg", updated.Name)
	assert.Equal(t, 12, updated.StockQuantity)
}

// Un medicamento nunca vendido se borra junto con su historial de movimientos.
func TestMedicineDelete_SinVentasBorraHistorial(t *testing.T) {
	store := memory.NewStore()
	uc := newMedicineUC(store)
	medicine, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name: "Jarabe", Unit: "frasco", Price: decimal.NewFromInt(3000), StockQuantity: 8,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), medicine.ID))

	_, err = uc.GetByID(context.Background(), medicine.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	movs, err := store.StockMovements().List(medicine.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "el historial se borra junto con el medicamento")
}

func TestMedicineDelete_ConVentasRechazado(t *testing.T) {
	store := memory.NewStore()
	uc := newMedicineUC(store)
	medicine, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name: "Antibiótico", Unit: "ampolla", Price: decimal.NewFromInt(7000), StockQuantity: 10,
	})
	require.NoError(t, err)

	// Simular una línea de venta que referencia el medicamento
	require.NoError(t, store.Transactions().CreateMedicineItem(&entity.TransactionMedicine{
		ID: "li-1", TransactionID: "tx-1", MedicineID: medicine.ID, Quantity: 1,
		UnitPrice: medicine.Price, Total: medicine.Price,
	}))

	err = uc.Delete(context.Background(), medicine.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.GetByID(context.Background(), medicine.ID)
	assert.NoError(t, err, "el medicamento referenciado sigue existiendo")
}

// movimientosRotos hace fallar todo insert de movimiento.
type movimientosRotos struct {
	repository.StockMovementRepository
}

func (movimientosRotos) Create(*entity.StockMovement) error {
	return errors.New("insert de movimiento fallido")
}

// runnerConFalloDeMovimientos delega en el store pero entrega al callback un
// repo de movimientos que siempre falla.
type runnerConFalloDeMovimientos struct {
	*memory.Store
}

func (r runnerConFalloDeMovimientos) Run(ctx context.Context, fn func(
	repository.StockMovementRepository,
	repository.MedicineRepository,
) error) error {
	return r.Store.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		return fn(movimientosRotos{movRepo}, medicineRepo)
	})
}

// El alta con stock inicial es atómica: si el movimiento de entrada no puede
// registrarse, tampoco queda un medicamento a medias con stock cero.
func TestMedicineCreate_StockInicialAtomico(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedgerUseCase(store, store.StockMovements())
	uc := usecase.NewMedicineUseCase(
		runnerConFalloDeMovimientos{store},
		store.Medicines(), store.StockMovements(), store.Transactions(), ledger,
	)

	_, err := uc.Create(context.Background(), dto.CreateMedicineRequest{
		Name: "Ketoprofeno", Unit: "tableta", Price: decimal.NewFromInt(1500), StockQuantity: 10,
	})

	require.Error(t, err)
	list, err := store.Medicines().List(false, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "el alta fallida no deja medicamento persistido")
}

// ──────────────────────────────────────────────────────────────────────────────
// ServiceUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestServiceDelete_ReferenciadoSeDesactivaNoSeBorra(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewServiceUseCase(store.Services(), store.Transactions())
	service, err := uc.Create(context.Background(), dto.CreateServiceRequest{
		Name: "Curación", Price: decimal.NewFromInt(25000),
	})
	require.NoError(t, err)
	require.True(t, service.IsActive, "un servicio nuevo nace activo")

	require.NoError(t, store.Transactions().CreateServiceItem(&entity.TransactionService{
		ID: "ls-1", TransactionID: "tx-1", ServiceID: service.ID, Quantity: 1,
		UnitPrice: service.Price, Total: service.Price,
	}))

	err = uc.Delete(context.Background(), service.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El camino correcto: desactivarlo
	inactive := false
	updated, err := uc.Update(context.Background(), service.ID, dto.UpdateServiceRequest{
		Name: service.Name, Price: service.Price, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// Y los listados de venta ya no lo muestran
	activos, err := uc.List(context.Background(), true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, activos)
}

// ──────────────────────────────────────────────────────────────────────────────
// PatientUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestPatientDelete_ConHistorialRechazado(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPatientUseCase(store.Patients(), store.Transactions(), store.Visits())
	patient, err := uc.Create(context.Background(), dto.CreatePatientRequest{Name: "Luis Gómez"})
	require.NoError(t, err)

	require.NoError(t, store.Visits().Create(&entity.Visit{
		ID: "v-1", PatientID: patient.ID,
	}))

	err = uc.Delete(context.Background(), patient.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPatientDelete_SinHistorial(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPatientUseCase(store.Patients(), store.Transactions(), store.Visits())
	patient, err := uc.Create(context.Background(), dto.CreatePatientRequest{Name: "Marta Ruiz"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), patient.ID))

	_, err = uc.GetByID(context.Background(), patient.ID)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestPatientCreate_FechaInvalida(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPatientUseCase(store.Patients(), store.Transactions(), store.Visits())

	_, err := uc.Create(context.Background(), dto.CreatePatientRequest{
		Name: "Pedro", BirthDate: "31/12/1990",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// SettingsUseCase
// ──────────────────────────────────────────────────────────────────────────────

// InitDefaults siembra las claves ausentes y nunca pisa un valor ya editado,
// por muchas veces que se ejecute.
func TestSettingsInitDefaults_Idempotente(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewSettingsUseCase(store.Settings())
	ctx := context.Background()

	require.NoError(t, uc.InitDefaults(ctx))
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(entity.DefaultSettings()))

	// El usuario personaliza el nombre de la clínica
	_, err = uc.Upsert(ctx, entity.SettingClinicName, "Clínica San Rafael")
	require.NoError(t, err)

	// Un segundo arranque no lo pisa
	require.NoError(t, uc.InitDefaults(ctx))
	setting, err := uc.Get(ctx, entity.SettingClinicName)
	require.NoError(t, err)
	assert.Equal(t, "Clínica San Rafael", setting.Value)

	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(entity.DefaultSettings()), "InitDefaults repetido no duplica claves")
}

func TestSettingsGet_ClaveInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewSettingsUseCase(store.Settings())

	_, err := uc.Get(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
