package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/application/visits"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPatientID  = "00000000-0000-0000-0000-0000000000p1"
	testServiceID  = "00000000-0000-0000-0000-0000000000s1"
	testMedicineID = "00000000-0000-0000-0000-0000000000m1"
)

type salesEnv struct {
	store  *memory.Store
	create *sales.CreateTransactionUseCase
	status *sales.UpdateStatusUseCase
}

// newSalesEnv arma el entorno completo de ventas sobre un store en memoria:
// un paciente, un servicio activo de $50.000 y un medicamento de $1.200 con
// el stock indicado.
func newSalesEnv(t *testing.T, medicineStock int) *salesEnv {
	t.Helper()
	store := memory.NewStore()

	require.NoError(t, store.Patients().Create(&entity.Patient{
		ID:   testPatientID,
		Name: "Ana Pérez",
	}))
	require.NoError(t, store.Services().Create(&entity.Service{
		ID:       testServiceID,
		Name:     "Consulta general",
		Price:    decimal.NewFromInt(50000),
		IsActive: true,
	}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID:            testMedicineID,
		Name:          "Ibuprofeno 400mg",
		Unit:          "tableta",
		Price:         decimal.NewFromInt(1200),
		StockQuantity: medicineStock,
		MinimumStock:  5,
	}))

	ledger := inventory.NewLedgerUseCase(store, store.StockMovements())
	visitsUC := visits.NewRecorderUseCase(store.Patients(), store.Transactions(), store.Visits())
	create := sales.NewCreateTransactionUseCase(
		store, ledger, visitsUC,
		store.Patients(), store.Services(), store.Medicines(), store.Transactions(),
	)
	status := sales.NewUpdateStatusUseCase(store, ledger, store.Transactions())

	return &salesEnv{store: store, create: create, status: status}
}

func (e *salesEnv) stock(t *testing.T) int {
	t.Helper()
	m, err := e.store.Medicines().GetByID(testMedicineID)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.StockQuantity
}

// venta estándar: 1 consulta + 5 tabletas.
func standardSale() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		PatientID:     testPatientID,
		PaymentMethod: entity.PaymentMethodCash,
		Services:      []dto.TransactionServiceInput{{ServiceID: testServiceID, Quantity: 1}},
		Medicines:     []dto.TransactionMedicineInput{{MedicineID: testMedicineID, Quantity: 5}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateTransaction
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransaction_VentaCompleta(t *testing.T) {
	env := newSalesEnv(t, 20)

	out, err := env.create.CreateTransaction(context.Background(), standardSale())

	require.NoError(t, err)
	// Total = 50.000 + 5 * 1.200 = 56.000
	assert.True(t, decimal.NewFromInt(56000).Equal(out.TotalAmount), "total %s", out.TotalAmount)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus, "sin estado explícito la venta nace pendiente")
	assert.Equal(t, "Ana Pérez", out.PatientName)
	require.Len(t, out.Services, 1)
	require.Len(t, out.Medicines, 1)

	// Stock descontado y salida registrada con la venta como referencia
	assert.Equal(t, 15, env.stock(t))
	movs, err := env.store.StockMovements().ListByReference(out.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, 5, movs[0].Quantity)

	// Visita clínica ligada a la venta
	visitas, err := env.store.Visits().ListByPatient(testPatientID, 10, 0)
	require.NoError(t, err)
	require.Len(t, visitas, 1)
	assert.Equal(t, out.ID, visitas[0].TransactionID)
}

// Los precios de las líneas quedan congelados al crear la venta: cambiar el
// catálogo después no altera la transacción.
func TestCreateTransaction_PrecioCongelado(t *testing.T) {
	env := newSalesEnv(t, 20)

	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	// Subir el precio del servicio en el catálogo
	svc, err := env.store.Services().GetByID(testServiceID)
	require.NoError(t, err)
	svc.Price = decimal.NewFromInt(99000)
	require.NoError(t, env.store.Services().Update(svc))

	relectura, err := env.create.GetTransaction(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(relectura.Services[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(56000).Equal(relectura.TotalAmount))
}

// Si una línea sobregira el stock, no debe persistirse nada: ni cabecera, ni
// líneas, ni movimientos, ni visita.
func TestCreateTransaction_StockInsuficienteTodoONada(t *testing.T) {
	env := newSalesEnv(t, 3)

	in := standardSale() // pide 5, hay 3
	_, err := env.create.CreateTransaction(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, env.stock(t))

	txs, err := env.store.Transactions().List("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)

	visitas, err := env.store.Visits().ListByPatient(testPatientID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, visitas)
}

func TestCreateTransaction_ServicioInactivo(t *testing.T) {
	env := newSalesEnv(t, 20)
	svc, err := env.store.Services().GetByID(testServiceID)
	require.NoError(t, err)
	svc.IsActive = false
	require.NoError(t, env.store.Services().Update(svc))

	_, err = env.create.CreateTransaction(context.Background(), standardSale())

	assert.ErrorIs(t, err, domain.ErrServiceInactive)
}

func TestCreateTransaction_PacienteInexistente(t *testing.T) {
	env := newSalesEnv(t, 20)
	in := standardSale()
	in.PatientID = "no-existe"

	_, err := env.create.CreateTransaction(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestCreateTransaction_EntradasInvalidas(t *testing.T) {
	env := newSalesEnv(t, 20)

	sinLineas := standardSale()
	sinLineas.Services = nil
	sinLineas.Medicines = nil

	metodoRaro := standardSale()
	metodoRaro.PaymentMethod = "bitcoin"

	cantidadCero := standardSale()
	cantidadCero.Medicines[0].Quantity = 0

	for _, in := range []dto.CreateTransactionRequest{sinLineas, metodoRaro, cantidadCero} {
		_, err := env.create.CreateTransaction(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 20, env.stock(t), "ninguna venta inválida debe tocar el stock")
}

// Una venta solo de servicios no genera movimientos de stock.
func TestCreateTransaction_SoloServiciosSinStock(t *testing.T) {
	env := newSalesEnv(t, 20)

	out, err := env.create.CreateTransaction(context.Background(), dto.CreateTransactionRequest{
		PatientID:     testPatientID,
		PaymentMethod: entity.PaymentMethodCard,
		Services:      []dto.TransactionServiceInput{{ServiceID: testServiceID, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100000).Equal(out.TotalAmount))
	assert.Equal(t, 20, env.stock(t))
	movs, err := env.store.StockMovements().ListByReference(out.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus: conciliación de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_PendientePagadoNoTocaStock(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)
	require.Equal(t, 15, env.stock(t))

	header, err := env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusPaid)

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, header.PaymentStatus)
	assert.Equal(t, 15, env.stock(t))
}

func TestUpdateStatus_AnularRestituyeStock(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, 20, env.stock(t))

	// La restitución queda documentada como entrada, el log original no se edita
	movs, err := env.store.StockMovements().ListByReference(out.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, entity.MovementTypeIn, movs[1].Type)
	assert.Equal(t, 5, movs[1].Quantity)
}

func TestUpdateStatus_ReactivarVuelveADescontar(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusCancelled)
	require.NoError(t, err)
	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusPaid)
	require.NoError(t, err)

	assert.Equal(t, 15, env.stock(t))
}

// Ciclos repetidos de anulación y reactivación no deben duplicar la
// restitución: la anulación repone solo el neto pendiente de la referencia.
func TestUpdateStatus_CiclosDeAnulacionSinDuplicar(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err = env.status.UpdateStatus(ctx, out.ID, entity.PaymentStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, 20, env.stock(t), "ciclo %d: anulada debe dejar el stock original", i)

		_, err = env.status.UpdateStatus(ctx, out.ID, entity.PaymentStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, 15, env.stock(t), "ciclo %d: reactivada debe descontar de nuevo", i)
	}
}

// Reactivar falla si el stock restituido ya se vendió por otro lado; el estado
// de la transacción no debe cambiar.
func TestUpdateStatus_ReactivarSinStockAborta(t *testing.T) {
	env := newSalesEnv(t, 5)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)
	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusCancelled)
	require.NoError(t, err)

	// Otra venta se lleva el stock restituido
	otra := standardSale()
	otra.Services = nil
	_, err = env.create.CreateTransaction(context.Background(), otra)
	require.NoError(t, err)
	require.Equal(t, 0, env.stock(t))

	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusPaid)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	header, err := env.store.Transactions().GetByID(out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCancelled, header.PaymentStatus, "el cambio de estado abortado no debe persistir")
	assert.Equal(t, 0, env.stock(t))
}

func TestUpdateStatus_MismoEstadoEsNoOp(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusPending)

	require.NoError(t, err)
	assert.Equal(t, 15, env.stock(t))
	movs, err := env.store.StockMovements().ListByReference(out.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "repetir el estado actual no registra movimientos")
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	_, err = env.status.UpdateStatus(context.Background(), out.ID, "refunded")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_VentaInexistente(t *testing.T) {
	env := newSalesEnv(t, 20)

	_, err := env.status.UpdateStatus(context.Background(), "no-existe", entity.PaymentStatusPaid)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddNotes_SoloNotas(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	header, err := env.status.AddNotes(context.Background(), out.ID, "paciente pagará el viernes")

	require.NoError(t, err)
	assert.Equal(t, "paciente pagará el viernes", header.Notes)
	assert.Equal(t, 15, env.stock(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateReceipt
// ──────────────────────────────────────────────────────────────────────────────

// generadorContado cuenta las invocaciones al puerto PDF.
type generadorContado struct {
	llamadas int
}

func (g *generadorContado) GenerateReceiptPDF(
	_ context.Context,
	_ *entity.Transaction,
	_ *entity.Patient,
	_ []sales.ReceiptLine,
	_ sales.ReceiptInfo,
) ([]byte, error) {
	g.llamadas++
	return []byte("%PDF-1.7"), nil
}

func (e *salesEnv) receiptUC(gen sales.ReceiptPDFGenerator) *sales.ReceiptUseCase {
	return sales.NewReceiptUseCase(
		e.store.Transactions(), e.store.Patients(), e.store.Services(),
		e.store.Medicines(), e.store.Settings(), gen,
	)
}

func TestGenerateReceipt_VentaPendiente(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)

	gen := &generadorContado{}
	pdf, err := env.receiptUC(gen).GenerateReceipt(context.Background(), out.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, gen.llamadas)
}

// Una venta anulada no tiene recibo: el caso de uso corta antes de tocar el
// generador.
func TestGenerateReceipt_VentaAnuladaRechazada(t *testing.T) {
	env := newSalesEnv(t, 20)
	out, err := env.create.CreateTransaction(context.Background(), standardSale())
	require.NoError(t, err)
	_, err = env.status.UpdateStatus(context.Background(), out.ID, entity.PaymentStatusCancelled)
	require.NoError(t, err)

	gen := &generadorContado{}
	_, err = env.receiptUC(gen).GenerateReceipt(context.Background(), out.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, gen.llamadas)
}
