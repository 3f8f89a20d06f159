package inventory

import (
	"context"

	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el Ledger de inventario: la mutación del
// stock y el insert del movimiento se confirman o se descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
	) error) error
}
