package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testMedicineID = "00000000-0000-0000-0000-00000000med1"

// newLedger construye un Ledger sobre un store en memoria con un medicamento
// de stock inicial conocido.
func newLedger(t *testing.T, initialStock int) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	err := store.Medicines().Create(&entity.Medicine{
		ID:            testMedicineID,
		Name:          "Amoxicilina 500mg",
		Unit:          "tableta",
		Price:         decimal.NewFromInt(1200),
		StockQuantity: initialStock,
		MinimumStock:  5,
	})
	require.NoError(t, err)
	return inventory.NewLedgerUseCase(store, store.StockMovements()), store
}

func stockOf(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	m, err := store.Medicines().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.StockQuantity
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaSumaStock(t *testing.T) {
	ledger, store := newLedger(t, 10)

	mov, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		MedicineID: testMedicineID,
		Type:       entity.MovementTypeIn,
		Quantity:   15,
		Notes:      "compra a proveedor",
	})

	require.NoError(t, err)
	assert.Equal(t, 25, stockOf(t, store, testMedicineID))
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.Equal(t, 15, mov.Quantity)
	assert.NotEmpty(t, mov.ID)

	movs, err := store.StockMovements().List(testMedicineID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "compra a proveedor", movs[0].Notes)
}

func TestApplyMovement_SalidaRestaStock(t *testing.T) {
	ledger, store := newLedger(t, 10)

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		MedicineID: testMedicineID,
		Type:       entity.MovementTypeOut,
		Quantity:   4,
	})

	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, store, testMedicineID))
}

// La salida que sobregira el stock debe fallar sin dejar rastro: ni el stock
// cambia ni queda movimiento registrado.
func TestApplyMovement_SobregiroRechazadoSinEfectos(t *testing.T) {
	ledger, store := newLedger(t, 3)

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		MedicineID: testMedicineID,
		Type:       entity.MovementTypeOut,
		Quantity:   4,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, stockOf(t, store, testMedicineID))

	movs, err := store.StockMovements().List("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// Salida por el stock exacto deja el medicamento en cero, no falla.
func TestApplyMovement_SalidaExactaDejaCero(t *testing.T) {
	ledger, store := newLedger(t, 7)

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		MedicineID: testMedicineID,
		Type:       entity.MovementTypeOut,
		Quantity:   7,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, store, testMedicineID))
}

func TestApplyMovement_MedicamentoInexistente(t *testing.T) {
	ledger, _ := newLedger(t, 10)

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		MedicineID: "no-existe",
		Type:       entity.MovementTypeIn,
		Quantity:   1,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_EntradasInvalidas(t *testing.T) {
	ledger, store := newLedger(t, 10)

	casos := []inventory.MovementInput{
		{MedicineID: testMedicineID, Type: "transfer", Quantity: 1}, // tipo desconocido
		{MedicineID: testMedicineID, Type: entity.MovementTypeIn, Quantity: 0},
		{MedicineID: testMedicineID, Type: entity.MovementTypeOut, Quantity: -5},
	}
	for _, in := range casos {
		_, err := ledger.ApplyMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 10, stockOf(t, store, testMedicineID))
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_SubirRegistraEntrada(t *testing.T) {
	ledger, store := newLedger(t, 10)

	err := ledger.AdjustStock(context.Background(), testMedicineID, 18, "conteo físico")

	require.NoError(t, err)
	assert.Equal(t, 18, stockOf(t, store, testMedicineID))

	movs, err := store.StockMovements().List(testMedicineID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 8, movs[0].Quantity)
	assert.Empty(t, movs[0].ReferenceID, "un ajuste manual no referencia transacción")
}

func TestAdjustStock_BajarRegistraSalida(t *testing.T) {
	ledger, store := newLedger(t, 10)

	err := ledger.AdjustStock(context.Background(), testMedicineID, 4, "merma")

	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, store, testMedicineID))

	movs, err := store.StockMovements().List(testMedicineID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, 6, movs[0].Quantity)
}

// Fijar el stock en su valor actual no debe registrar movimiento.
func TestAdjustStock_DeltaCeroEsNoOp(t *testing.T) {
	ledger, store := newLedger(t, 10)

	err := ledger.AdjustStock(context.Background(), testMedicineID, 10, "sin cambios")

	require.NoError(t, err)
	movs, err := store.StockMovements().List(testMedicineID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestAdjustStock_NegativoRechazado(t *testing.T) {
	ledger, _ := newLedger(t, 10)

	err := ledger.AdjustStock(context.Background(), testMedicineID, -1, "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_MedicamentoInexistente(t *testing.T) {
	ledger, _ := newLedger(t, 10)

	err := ledger.AdjustStock(context.Background(), "no-existe", 5, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListMovements
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_MasRecientePrimero(t *testing.T) {
	ledger, _ := newLedger(t, 0)

	for _, qty := range []int{5, 3, 9} {
		_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
			MedicineID: testMedicineID,
			Type:       entity.MovementTypeIn,
			Quantity:   qty,
		})
		require.NoError(t, err)
	}

	movs, err := ledger.ListMovements(context.Background(), testMedicineID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, 9, movs[0].Quantity, "el último movimiento registrado sale primero")
	assert.Equal(t, 5, movs[2].Quantity)
}
