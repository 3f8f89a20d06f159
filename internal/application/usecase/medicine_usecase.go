package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// MedicineUseCase CRUD del catálogo de medicamentos. Nunca toca el stock
// directamente: el stock inicial y los ajustes pasan por el Ledger para que
// siempre quede un movimiento que los documente.
type MedicineUseCase struct {
	txRunner        inventory.TxRunner
	medicineRepo    repository.MedicineRepository
	movementRepo    repository.StockMovementRepository
	transactionRepo repository.TransactionRepository
	ledger          *inventory.LedgerUseCase
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(
	txRunner inventory.TxRunner,
	medicineRepo repository.MedicineRepository,
	movementRepo repository.StockMovementRepository,
	transactionRepo repository.TransactionRepository,
	ledger *inventory.LedgerUseCase,
) *MedicineUseCase {
	return &MedicineUseCase{
		txRunner:        txRunner,
		medicineRepo:    medicineRepo,
		movementRepo:    movementRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
	}
}

// Create registra el medicamento y, si se indicó stock inicial, lo carga vía
// Ledger como movimiento de entrada. Alta y carga van en la misma transacción:
// si el movimiento no puede registrarse, el medicamento tampoco queda creado.
func (uc *MedicineUseCase) Create(ctx context.Context, in dto.CreateMedicineRequest) (*entity.Medicine, error) {
	if in.Name == "" || in.Unit == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.StockQuantity < 0 || in.MinimumStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := parseOptionalDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	medicine := &entity.Medicine{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Unit:         in.Unit,
		Price:        in.Price,
		MinimumStock: in.MinimumStock,
		ExpiryDate:   expiry,
		Supplier:     in.Supplier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		if err := medicineRepo.Create(medicine); err != nil {
			return err
		}
		if in.StockQuantity == 0 {
			return nil
		}
		_, err := uc.ledger.ApplyMovementInTx(movRepo, medicineRepo, inventory.MovementInput{
			MedicineID: medicine.ID,
			Type:       entity.MovementTypeIn,
			Quantity:   in.StockQuantity,
			Notes:      "stock inicial",
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	medicine.StockQuantity = in.StockQuantity
	return medicine, nil
}

// GetByID obtiene un medicamento; ErrNotFound si no existe.
func (uc *MedicineUseCase) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	medicine, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}
	return medicine, nil
}

// List paginado; lowStockOnly limita a medicamentos en o bajo su stock mínimo.
func (uc *MedicineUseCase) List(ctx context.Context, lowStockOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	return uc.medicineRepo.List(lowStockOnly, limit, offset)
}

// Update actualiza los metadatos del catálogo. El stock no se toca aquí.
func (uc *MedicineUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicineRequest) (*entity.Medicine, error) {
	medicine, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.Unit == "" || in.Price.IsNegative() || in.MinimumStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := parseOptionalDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	medicine.Name = in.Name
	medicine.Unit = in.Unit
	medicine.Price = in.Price
	medicine.MinimumStock = in.MinimumStock
	medicine.ExpiryDate = expiry
	medicine.Supplier = in.Supplier
	medicine.UpdatedAt = time.Now()
	if err := uc.medicineRepo.Update(medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

// Delete elimina un medicamento no referenciado por ninguna línea de venta,
// junto con todo su historial de movimientos. ErrConflict si está referenciado.
func (uc *MedicineUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := uc.transactionRepo.CountByMedicine(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	if err := uc.movementRepo.DeleteByMedicine(id); err != nil {
		return err
	}
	return uc.medicineRepo.Delete(id)
}
