package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// LedgerUseCase es el motor de inventario: aplica deltas de stock con registro de
// auditoría, de forma transaccional y con bloqueo de fila (SELECT FOR UPDATE).
// Toda mutación de stock de un medicamento pasa por aquí, incluidos los ajustes
// manuales, para que siempre quede un StockMovement que la explique.
type LedgerUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso. movementRepo es el repositorio
// atado al pool, usado solo para consultas fuera de transacción.
func NewLedgerUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movementRepo: movementRepo}
}

// MovementInput entrada para registrar un movimiento de stock.
type MovementInput struct {
	MedicineID  string
	Type        string // in, out
	Quantity    int    // > 0
	ReferenceID string // transacción que lo origina; vacío para ajustes manuales
	Notes       string
}

// ApplyMovement registra un movimiento en su propia transacción:
// bloquea la fila del medicamento, aplica el delta y persiste el movimiento.
// Commit si todo sale bien, Rollback si algo falla.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		var err error
		mov, err = uc.ApplyMovementInTx(movRepo, medicineRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios del caller
// (misma transacción). Lo usan los casos de uso de ventas para descontar y
// restituir stock dentro de su propia unidad atómica.
//
// Reglas:
//   - medicamento inexistente      -> domain.ErrNotFound
//   - tipo desconocido o qty <= 0  -> domain.ErrInvalidInput
//   - salida mayor al stock actual -> domain.ErrInsufficientStock
//
// El stock nunca queda negativo: la verificación se hace con la fila bloqueada,
// por lo que dos salidas concurrentes no pueden sobregirar el mismo medicamento.
func (uc *LedgerUseCase) ApplyMovementInTx(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	if input.Type != entity.MovementTypeIn && input.Type != entity.MovementTypeOut {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Bloquea la fila del medicamento para evitar condiciones de carrera
	medicine, err := medicineRepo.GetForUpdate(input.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}

	newQuantity := medicine.StockQuantity
	switch input.Type {
	case entity.MovementTypeOut:
		if input.Quantity > medicine.StockQuantity {
			return nil, domain.ErrInsufficientStock
		}
		newQuantity -= input.Quantity
	case entity.MovementTypeIn:
		newQuantity += input.Quantity
	}

	if err := medicineRepo.UpdateStock(input.MedicineID, newQuantity); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		MedicineID:  input.MedicineID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		ReferenceID: input.ReferenceID,
		Notes:       input.Notes,
		CreatedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustStock fija el stock de un medicamento en un valor absoluto. Calcula el
// delta contra el stock actual y lo registra como movimiento con la dirección
// correcta. Delta cero es un no-op silencioso: no se registra movimiento.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, medicineID string, newQuantity int, notes string) error {
	if newQuantity < 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		medicine, err := medicineRepo.GetForUpdate(medicineID)
		if err != nil {
			return err
		}
		if medicine == nil {
			return domain.ErrNotFound
		}

		delta := newQuantity - medicine.StockQuantity
		if delta == 0 {
			return nil
		}
		input := MovementInput{
			MedicineID: medicineID,
			Type:       entity.MovementTypeIn,
			Quantity:   delta,
			Notes:      notes,
		}
		if delta < 0 {
			input.Type = entity.MovementTypeOut
			input.Quantity = -delta
		}
		_, err = uc.ApplyMovementInTx(movRepo, medicineRepo, input, time.Now())
		return err
	})
}

// ListMovements devuelve movimientos en orden descendente por fecha de creación.
// medicineID vacío = todos los medicamentos.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, medicineID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movementRepo.List(medicineID, limit, offset)
}
