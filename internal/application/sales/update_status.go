package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// UpdateStatusUseCase concilia el inventario con los cambios de estado de pago
// de una transacción:
//
//   - hacia cancelled: restituye el stock descontado registrando movimientos de
//     entrada (los originales no se tocan, el log es append-only)
//   - desde cancelled hacia un estado activo: vuelve a descontar el stock por
//     línea de medicamento, fallando si ya no alcanza
//   - mismo estado: no-op respecto al stock, solo toca updated_at
//
// Cada transición ejecuta sus movimientos y la actualización de estado dentro
// de una sola transacción de BD.
type UpdateStatusUseCase struct {
	txRunner        SalesTxRunner
	ledger          Ledger
	transactionRepo repository.TransactionRepository
}

// NewUpdateStatusUseCase construye el caso de uso.
func NewUpdateStatusUseCase(
	txRunner SalesTxRunner,
	ledger Ledger,
	transactionRepo repository.TransactionRepository,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		txRunner:        txRunner,
		ledger:          ledger,
		transactionRepo: transactionRepo,
	}
}

// UpdateStatus cambia el estado de pago de la transacción aplicando la
// conciliación de stock que corresponda. Retorna la cabecera actualizada.
func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, id, newStatus string) (*entity.Transaction, error) {
	if !entity.ValidPaymentStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}

	header, err := uc.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()

	// Mismo estado: idempotente respecto al stock, solo se toca updated_at.
	if header.PaymentStatus == newStatus {
		header.UpdatedAt = now
		if err := uc.transactionRepo.Update(header); err != nil {
			return nil, err
		}
		return header, nil
	}

	current := header.PaymentStatus
	err = uc.txRunner.RunSales(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
		txRepo repository.TransactionRepository,
		_ repository.VisitRepository,
	) error {
		switch {
		case newStatus == entity.PaymentStatusCancelled:
			if err := uc.restoreStock(movRepo, medicineRepo, id, now); err != nil {
				return err
			}
		case current == entity.PaymentStatusCancelled:
			if err := uc.redeductStock(movRepo, medicineRepo, txRepo, id, now); err != nil {
				return err
			}
		}
		// pending <-> paid no toca el stock

		header.PaymentStatus = newStatus
		header.UpdatedAt = now
		return txRepo.Update(header)
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// restoreStock registra un movimiento de entrada por medicamento por la
// cantidad pendiente de restituir: suma de salidas menos suma de entradas con
// esta transacción como referencia. Calcular el neto pendiente (y no revertir
// cada salida por separado) mantiene la restitución exacta aunque la venta
// pase varias veces por cancelled y vuelva, porque la reactivación registra
// nuevas salidas con la misma referencia.
func (uc *UpdateStatusUseCase) restoreStock(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
	transactionID string,
	now time.Time,
) error {
	movements, err := movRepo.ListByReference(transactionID)
	if err != nil {
		return err
	}

	outstanding := make(map[string]int)
	var order []string // orden de primera aparición, para movimientos deterministas
	for _, mov := range movements {
		if _, seen := outstanding[mov.MedicineID]; !seen {
			order = append(order, mov.MedicineID)
		}
		switch mov.Type {
		case entity.MovementTypeOut:
			outstanding[mov.MedicineID] += mov.Quantity
		case entity.MovementTypeIn:
			outstanding[mov.MedicineID] -= mov.Quantity
		}
	}

	for _, medicineID := range order {
		qty := outstanding[medicineID]
		if qty <= 0 {
			continue
		}
		if _, err := uc.ledger.ApplyMovementInTx(movRepo, medicineRepo, inventory.MovementInput{
			MedicineID:  medicineID,
			Type:        entity.MovementTypeIn,
			Quantity:    qty,
			ReferenceID: transactionID,
			Notes:       fmt.Sprintf("transacción #%s anulada, stock restituido", transactionID),
		}, now); err != nil {
			return err
		}
	}
	return nil
}

// redeductStock vuelve a descontar el stock por cada línea de medicamento de la
// transacción reactivada. El Ledger verifica la suficiencia con la fila
// bloqueada; ErrInsufficientStock aborta el cambio de estado completo.
func (uc *UpdateStatusUseCase) redeductStock(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
	txRepo repository.TransactionRepository,
	transactionID string,
	now time.Time,
) error {
	items, err := txRepo.GetMedicineItems(transactionID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := uc.ledger.ApplyMovementInTx(movRepo, medicineRepo, inventory.MovementInput{
			MedicineID:  item.MedicineID,
			Type:        entity.MovementTypeOut,
			Quantity:    item.Quantity,
			ReferenceID: transactionID,
			Notes:       fmt.Sprintf("transacción #%s reactivada, stock descontado", transactionID),
		}, now); err != nil {
			return err
		}
	}
	return nil
}

// AddNotes actualiza solo las notas de la transacción. Sin efectos de stock.
func (uc *UpdateStatusUseCase) AddNotes(ctx context.Context, id, notes string) (*entity.Transaction, error) {
	header, err := uc.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}
	header.Notes = notes
	header.UpdatedAt = time.Now()
	if err := uc.transactionRepo.Update(header); err != nil {
		return nil, err
	}
	return header, nil
}
