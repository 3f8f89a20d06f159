package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de ventas, inventario y visitas. Es la unidad atómica de
// CreateTransaction y UpdateStatus: cabecera, líneas, movimientos de stock y
// visita se confirman o se descartan juntos.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
		txRepo repository.TransactionRepository,
		visitRepo repository.VisitRepository,
	) error) error
}

// Ledger interfaz para integrar ventas con inventario.
// ApplyMovementInTx aplica el movimiento usando los repositorios del caller
// (misma transacción). Si retorna error (ej: ErrInsufficientStock), el caller
// debe hacer rollback.
type Ledger interface {
	ApplyMovementInTx(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
		input inventory.MovementInput,
		now time.Time,
	) (*entity.StockMovement, error)
}

// VisitRecorder interfaz para registrar la visita ligada a la venta dentro de
// la misma transacción.
type VisitRecorder interface {
	RecordVisitInTx(
		visitRepo repository.VisitRepository,
		patientID, transactionID string,
		visitDate time.Time,
	) (*entity.Visit, error)
}
